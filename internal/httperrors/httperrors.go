package httperrors

import (
	"fmt"
	"html"
	"net/http"
)

type content struct {
	status       int
	title        string
	statusString string
	header       string
	explanation  string
}

var (
	content403 = content{
		http.StatusForbidden,
		"Forbidden (403)",
		"403",
		"Forbidden",
		"Request forbidden -- authorization will not help.",
	}
	content404 = content{
		http.StatusNotFound,
		"Not Found (404)",
		"404",
		"File not found",
		"Nothing matches the given URI.",
	}
	content414 = content{
		http.StatusRequestURITooLong,
		"Request URI Too Long (414)",
		"414",
		"Request URI Too Long",
		"The URI provided was too long for the server to process.",
	}
	content500 = content{
		http.StatusInternalServerError,
		"Something went wrong (500)",
		"500",
		"Internal Server Error",
		"Server got itself in trouble.",
	}
	content501 = content{
		http.StatusNotImplemented,
		"Not Implemented (501)",
		"501",
		"Unsupported method",
		"Server does not support this operation.",
	}
)

const predefinedErrorPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%v</title>
  <style>
    body {
      color: #666;
      font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
      margin: 40px auto;
      max-width: 800px;
      font-size: 14px;
    }

    h1 {
      font-size: 40px;
      font-weight: 400;
      color: #456;
    }
  </style>
</head>
<body>
  <h1>Error response</h1>
  <p>Error code: %v</p>
  <p>Message: %v.</p>
  <p>Error code explanation: %v - %v</p>
</body>
</html>
`

func generateErrorHTML(c content) string {
	return fmt.Sprintf(predefinedErrorPage,
		c.title, c.statusString, html.EscapeString(c.header), c.statusString, c.explanation)
}

func serveErrorPage(w http.ResponseWriter, c content) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(c.status)
	fmt.Fprint(w, generateErrorHTML(c))
}

// Serve403 returns a 403 error response / HTML page to the http.ResponseWriter
func Serve403(w http.ResponseWriter) {
	serveErrorPage(w, content403)
}

// Serve404 returns a 404 error response / HTML page to the http.ResponseWriter.
// reason is shown as the message of the page and usually embeds the requested path.
func Serve404(w http.ResponseWriter, reason string) {
	c := content404
	if reason != "" {
		c.header = reason
	}

	serveErrorPage(w, c)
}

// Serve414 returns a 414 error response / HTML page to the http.ResponseWriter
func Serve414(w http.ResponseWriter) {
	serveErrorPage(w, content414)
}

// Serve500 returns a 500 error response / HTML page to the http.ResponseWriter
func Serve500(w http.ResponseWriter) {
	serveErrorPage(w, content500)
}

// Serve501 returns a 501 error response / HTML page naming the rejected method
func Serve501(w http.ResponseWriter, method string) {
	c := content501
	c.header = fmt.Sprintf("Unsupported method (%s)", method)

	serveErrorPage(w, c)
}
