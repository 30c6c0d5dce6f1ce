package main

import (
	"github.com/sirupsen/logrus"

	"tracebench/pkg/conf"
	"tracebench/pkg/trace"
	"tracebench/pkg/utils/errutil"
)

func main() {
	conf.SetAppName("tracegen")
	conf.SetHelp(`Tracegen synthesizes an arrival trace for the rload load generator:
one integer millisecond timestamp per line, covering the configured duration at the
configured rate under the chosen inter-arrival distribution (const, uniform or exp).`)

	errutil.Check(conf.ParseFlags())
	logrus.SetLevel(conf.LogLevel())

	kind, err := trace.ParseKind(trace.DistributionFlag.Value())
	errutil.CheckWithContext(err, "invalid configuration")

	arrivals, err := trace.Generate(trace.DefaultConfig(kind))
	errutil.CheckWithContext(err, "generating arrival trace failed")

	err = trace.WriteFile(trace.FileFlag.Value(), arrivals)
	errutil.CheckWithContext(err, "writing arrival trace failed")

	logrus.Infof("wrote %d arrivals to %q", len(arrivals), trace.FileFlag.Value())
}
