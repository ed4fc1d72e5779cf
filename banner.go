package main

import (
	"fmt"
	"io"
	"net"

	"github.com/fatih/color"

	"gitlab.com/gitlab-org/pages-devserver/internal/redirects"
)

// listenURL returns the address a browser can open for addr, an unspecified
// host is reachable as localhost
func listenURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}

	return "http://" + net.JoinHostPort(host, port)
}

func listenURLs(listeners []net.Listener) []string {
	urls := make([]string, 0, len(listeners))
	for _, ln := range listeners {
		urls = append(urls, listenURL(ln.Addr()))
	}

	return urls
}

func printBanner(w io.Writer, urls []string, rules []redirects.Rule) {
	title := color.New(color.Bold)
	link := color.New(color.FgCyan)

	title.Fprintln(w, "Serving development files")

	for _, u := range urls {
		fmt.Fprint(w, "  ")
		link.Fprintln(w, u)
	}

	if len(rules) > 0 {
		fmt.Fprintln(w)
		title.Fprintln(w, "Redirects")

		for _, rule := range rules {
			fmt.Fprintf(w, "  %s\n", rule)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press Ctrl+C to stop the server")
}
