/*
tagcheck runs suites of declarative checks against HTML documents, eg. to
make sure a deployed signup page still renders the form fields a backend
expects.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/jakopako/tagcheck/internal/fetch"
	"github.com/jakopako/tagcheck/internal/log"
	"github.com/jakopako/tagcheck/internal/output"
	"github.com/jakopako/tagcheck/internal/suite"
	"github.com/jakopako/tagcheck/internal/types"
)

var version = "dev"

// errChecksFailed makes the process exit with a non-zero status.
var errChecksFailed = errors.New("some checks failed")

type VersionFlag string

func (v VersionFlag) Decode(_ *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                       { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

type cli struct {
	Version VersionFlag `short:"v" long:"version" help:"Print the version and exit."`
	Debug   bool        `short:"d" long:"debug" help:"Set log level to 'debug' and store fetched pages in the fetcher's debug directory."`

	Check CheckCmd `cmd:"" help:"Run the checks of a suite."`
	List  ListCmd  `cmd:"" help:"List the checks of a suite."`
}

type CheckCmd struct {
	Config    string `short:"c" default:"./suite.yaml" help:"The location of the suite file."`
	Name      string `short:"n" help:"The name of the check to be run, if only one of the suite's checks should be run."`
	Stdout    bool   `short:"o" help:"If set to true the results will be written to stdout despite the suite's output configuration."`
	ReportDir string `short:"r" long:"report-dir" help:"Write the results as json to the given directory instead of stdout."`
	Verbose   bool   `short:"V" help:"Also list the checks that passed."`
}

func (cc *CheckCmd) Run() error {
	config, err := suite.NewConfigFromFile(cc.Config)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	if cc.ReportDir != "" {
		config.Output.Type = output.FILE_WRITER_TYPE
		config.Output.FileDir = cc.ReportDir
	}
	if cc.Stdout {
		config.Output.Type = output.STDOUT_WRITER_TYPE
	}
	if cc.Verbose {
		config.Output.Verbose = true
	}

	writer, err := output.NewWriter(&config.Output)
	if err != nil {
		slog.Error(err.Error())
		return err
	}

	fetcher, err := fetch.NewFetcher(&config.Fetcher)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer fetcher.Cancel()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resultChan := make(chan types.CheckResult)
	writerChan := make(chan types.CheckResult)
	summary := types.Summary{}

	// count the results on their way to the writer
	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		defer close(writerChan)
		for r := range resultChan {
			summary.Add(r)
			writerChan <- r
		}
	}()

	var writerErr error
	var writerWg sync.WaitGroup
	writerWg.Add(1)
	go func() {
		defer writerWg.Done()
		writerErr = writer.Write(writerChan)
	}()

	runErr := suite.NewRunner(config, fetcher).Run(ctx, cc.Name, resultChan)
	close(resultChan)
	collectorWg.Wait()
	writerWg.Wait()

	if runErr != nil {
		slog.Error(runErr.Error())
		return runErr
	}
	if writerErr != nil {
		slog.Error(writerErr.Error())
		return writerErr
	}

	slog.Info(fmt.Sprintf("ran %d checks, %d passed, %d failed", summary.Total, summary.Passed, summary.Failed))
	if summary.Failed > 0 {
		return errChecksFailed
	}
	return nil
}

type ListCmd struct {
	Config string `short:"c" default:"./suite.yaml" help:"The location of the suite file."`
}

func (lc *ListCmd) Run() error {
	config, err := suite.NewConfigFromFile(lc.Config)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	planned, err := suite.NewRunner(config, nil).Plan("")
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	for _, p := range planned {
		fmt.Printf("%s\t%s\t%s\n", p.Name, p.Check.Document, p.Matcher.Description())
	}
	return nil
}

func getVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
			return buildInfo.Main.Version
		}
	}
	return version
}

func main() {
	cli := cli{
		Version: VersionFlag(getVersion()),
	}

	ctx := kong.Parse(&cli,
		kong.Name("tagcheck"),
		kong.Vars{
			"version": string(cli.Version),
		})

	log.Debug = cli.Debug
	log.InitializeDefaultLogger()

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
