package vfs

import (
	"context"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/pages-devserver/metrics"
)

// Instrumented wraps root so every operation is counted and trace logged
func Instrumented(root Root, name string) Root {
	return &instrumentedRoot{root: root, name: name}
}

type instrumentedRoot struct {
	root Root
	name string
}

func (i *instrumentedRoot) increment(operation string, err error) {
	metrics.VFSOperations.WithLabelValues(i.name, operation, strconv.FormatBool(err == nil)).Inc()
}

func (i *instrumentedRoot) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	fi, err := i.root.Stat(ctx, name)
	i.increment("Stat", err)

	log.WithField("vfs", i.name).
		WithField("name", name).
		WithError(err).
		Traceln("Stat call")

	return fi, err
}

func (i *instrumentedRoot) Open(ctx context.Context, name string) (File, error) {
	f, err := i.root.Open(ctx, name)
	i.increment("Open", err)

	log.WithField("vfs", i.name).
		WithField("name", name).
		WithError(err).
		Traceln("Open call")

	return f, err
}
