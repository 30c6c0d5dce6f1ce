package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"tracebench/pkg/bench"
	"tracebench/pkg/conf"
	"tracebench/pkg/executor"
	"tracebench/pkg/loadgen"
	"tracebench/pkg/spans"
	"tracebench/pkg/utils/errutil"
)

func main() {
	conf.SetAppName("tracebench")
	conf.SetHelp(`Tracebench runs one benchmark cycle: it launches the rload load generator
against a pre-generated arrival trace, waits for the tracing backend to ingest the
emitted spans, queries their start times and writes them rebased to the earliest
one (in milliseconds) to the output file.`)

	errutil.Check(conf.ParseFlags())
	logrus.SetLevel(conf.LogLevel())

	reader, err := spans.NewReader()
	errutil.CheckWithContext(err, "connecting to tracing backend failed")

	runner := loadgen.New(executor.NewLocal(), loadgen.DefaultConfig())
	benchmark := bench.New(runner, reader, bench.DefaultConfig())

	errutil.CheckWithContext(benchmark.Run(context.Background()), "benchmark run failed")
}
