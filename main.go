package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/teamstools/teams-cache-clear/cl"
	"github.com/teamstools/teams-cache-clear/data"
	"github.com/teamstools/teams-cache-clear/localize"
	"github.com/teamstools/teams-cache-clear/native"
	"github.com/teamstools/teams-cache-clear/purge"
	"github.com/teamstools/teams-cache-clear/tui"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

const appName = "teams-cache-clear"

var version = "head"

var (
	app = kingpin.New(appName, "Closes Microsoft Teams, clears its cache and starts it again.")

	timeoutFlag    = app.Flag("timeout", "How long a single deletion may take before it's abandoned").Default(purge.DefaultTimeout.String()).Duration()
	noKillFlag     = app.Flag("no-kill", "Leave running instances alone").Bool()
	noRelaunchFlag = app.Flag("no-relaunch", "Don't start Teams again after clearing").Bool()
	variantFlag    = app.Flag("variant", "Only handle this variant (repeatable)").Enums("classic", "modern", "old", "new")
	silentFlag     = app.Flag("silent", "Run once without the interactive interface").Bool()
	autoFlag       = app.Flag("auto", "Start clearing as soon as the interface opens").Bool()
	jsonFlag       = app.Flag("json", "Print events as JSON lines on stdout (implies --silent)").Bool()
	reportFlag     = app.Flag("report", "Write the result of the run to this JSON file").String()
	logFileFlag    = app.Flag("log-file", "Where to write the log").String()
	langFlag       = app.Flag("lang", "Interface language (defaults to the system's)").Enum(data.Locales()...)

	runCmd = app.Command("run", "Clear the cache").Default()

	pathsCmd = app.Command("paths", "Show the folders and executables that would be used")

	openCmd  = app.Command("open", "Open the folder containing a path")
	openPath = openCmd.Arg("path", "A path listed in a previous run").Required().String()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	cli := cl.CLI{
		AppName:       appName,
		VersionString: version,
		Timeout:       *timeoutFlag,
		NoKill:        *noKillFlag,
		NoRelaunch:    *noRelaunchFlag,
		Silent:        *silentFlag || *jsonFlag,
		AutoRun:       *autoFlag,
		JSON:          *jsonFlag,
		ReportPath:    *reportFlag,
		LogPath:       *logFileFlag,
		Lang:          *langFlag,
	}
	if len(*variantFlag) > 0 {
		cli.Variants = purge.NewVariantSet()
		for _, s := range *variantFlag {
			v, _ := purge.ParseVariant(s)
			cli.Variants.Add(v)
		}
	}

	closer := setupLogging(&cli)
	defer closer.Close()

	log.Printf("%s %s starting", cli.AppName, cli.VersionString)

	loc, err := localize.NewLocalizer(data.Asset)
	app.FatalIfError(err, "loading strings")
	lang := cli.Lang
	if lang == "" {
		lang = localize.DetectLang()
	}
	loc.Use(lang)
	cli.Localizer = loc

	catalog, err := native.NewCatalog()
	app.FatalIfError(err, "resolving user folders")

	switch cmd {
	case runCmd.FullCommand():
		code := doRun(cli, catalog)
		closer.Close()
		os.Exit(code)
	case pathsCmd.FullCommand():
		doPaths(cli, catalog)
	case openCmd.FullCommand():
		doOpen(cli, *openPath)
	}
}

func setupLogging(cli *cl.CLI) io.Closer {
	if cli.LogPath == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		cli.LogPath = filepath.Join(dir, appName, "logs", appName+".log")
	}

	lj := &lumberjack.Logger{
		Filename:   cli.LogPath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}

	writers := []io.Writer{lj}
	if cli.Silent {
		// the interactive interface owns the terminal otherwise
		writers = append(writers, os.Stderr)
	}
	if cli.JSON {
		purge.EnableJSON(os.Stdout)
		writers = append(writers, purge.LogWriter{})
	}
	log.SetOutput(io.MultiWriter(writers...))
	return lj
}

func doRun(cli cl.CLI, catalog *native.Catalog) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	deleter := purge.NewDeleter(cli.Timeout)
	settings := purge.RunnerSettings{
		Layout:     catalog.Layout(),
		Processes:  native.NewController(catalog),
		Deleter:    deleter,
		Variants:   cli.Variants,
		NoKill:     cli.NoKill,
		NoRelaunch: cli.NoRelaunch,
	}
	if cli.JSON {
		settings = purge.WithHandlers(settings, purge.EmitHandlers(deleter))
	}

	var rr *purge.RunResult
	var err error
	if cli.Silent {
		rr, err = purge.NewRunner(settings).Run(ctx)
	} else {
		rr, err = tui.Run(ctx, settings, cli.Localizer, tui.Options{AutoRun: cli.AutoRun})
	}
	if err != nil {
		log.Printf("Run failed: %+v", err)
		return 1
	}
	if rr == nil {
		// quit before anything ran
		return 0
	}

	if cli.Silent && !cli.JSON {
		tui.Print(os.Stdout, cli.Localizer, nil, rr, deleter.Detached())
	}

	if cli.ReportPath != "" {
		err = purge.WriteReport(cli.ReportPath, rr)
		if err != nil {
			log.Printf("Could not write report: %+v", err)
			return 1
		}
		log.Printf("Wrote report to (%s)", cli.ReportPath)
	}

	if cli.Silent && rr.Summary().Problems() > 0 {
		return 1
	}
	return 0
}

func doPaths(cli cl.CLI, catalog *native.Catalog) {
	loc := cli.Localizer
	fmt.Printf("%s: %s\n", loc.T("paths.classic_root"), catalog.ClassicCacheRoot())
	fmt.Printf("%s: %s\n", loc.T("paths.modern_root"), catalog.ModernPackageRoot())
	for _, v := range purge.AllVariants {
		label := loc.T("paths.executable", localize.Replacements{"variant": string(v)})
		fmt.Printf("%s: %s\n", label, catalog.Executable(v))
	}
}

func doOpen(cli cl.CLI, path string) {
	opened, err := native.OpenContainingFolder(path, native.DefaultOpener)
	if err != nil {
		app.Fatalf("%s", cli.Localizer.T("message.open_failed", localize.Replacements{"error": err.Error()}))
	}
	if !opened {
		app.Fatalf("%s", cli.Localizer.T("message.open_missing", localize.Replacements{"path": path}))
	}
}
