// Package cli implements the navsim command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	generalFlagConfig   = "config"
	generalFlagDebug    = "debug"
	generalFlagQuiet    = "quiet"
	generalFlagLogFile  = "log-file"
	generalFlagLogLevel = "log-level"

	demoFlagStart           = "start"
	demoFlagGoal            = "goal"
	demoFlagPNG             = "png"
	demoFlagGIF             = "gif"
	demoFlagInflationRadius = "inflation-radius"
	demoFlagGlobalPlanner   = "global-planner"
	demoFlagHeuristic       = "heuristic"
	demoFlagDynamic         = "dynamic"
	demoFlagNoDynamic       = "no-dynamic"
	demoFlagReplanInterval  = "replan-interval"
	demoFlagMaxReplans      = "max-replans"
	demoFlagLocalization    = "localization"
	demoFlagNoLocalization  = "no-localization"
	demoFlagLookahead       = "lookahead"
	demoFlagSpeed           = "speed"

	flagLocalPlanner = "local-planner"

	benchFlagTrials       = "trials"
	benchFlagSeed         = "seed"
	benchFlagWorkers      = "workers"
	benchFlagCSV          = "csv"
	benchFlagSummaryCSV   = "summary-csv"
	benchFlagPlanners     = "planners"
	benchFlagChart        = "chart"
	benchFlagCompareChart = "compare-chart"
	benchFlagReadme       = "readme"

	defaultBenchmarkTrials = 30
	defaultBenchmarkCSV    = "reports/benchmark.csv"
)

func configFlag() cli.Flag {
	return &cli.PathFlag{
		Name:    generalFlagConfig,
		Aliases: []string{"c"},
		Usage:   "load the scenario from `FILE`; the built-in demo scenario is used when omitted",
	}
}

func debugFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    generalFlagDebug,
		Aliases: []string{"vvv"},
		Usage:   "enable debug logging",
	}
}

func localPlannerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagLocalPlanner,
		Usage: "local planner: pure_pursuit or dwa",
	}
}

var app = &cli.App{
	Name:            "navsim",
	Usage:           "simulate and benchmark 2D grid robot navigation",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		debugFlag(),
		&cli.BoolFlag{
			Name:    generalFlagQuiet,
			Aliases: []string{"q"},
			Usage:   "disable spinners and progress bars",
		},
		&cli.PathFlag{
			Name:  generalFlagLogFile,
			Usage: "also append logs to `FILE`, rotated as it grows",
		},
		&cli.StringFlag{
			Name:  generalFlagLogLevel,
			Value: "info",
			Usage: "minimum level logged: debug, info, warn or error",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "demo",
			Usage:     "run one scenario and render it",
			UsageText: "navsim demo [--config FILE] [other options]",
			Flags: []cli.Flag{
				configFlag(),
				debugFlag(),
				&cli.StringFlag{
					Name:  demoFlagStart,
					Usage: "start cell as `x,y`",
				},
				&cli.StringFlag{
					Name:  demoFlagGoal,
					Usage: "goal cell as `x,y`",
				},
				&cli.PathFlag{
					Name:  demoFlagPNG,
					Usage: "write the scene to this PNG file",
				},
				&cli.PathFlag{
					Name:  demoFlagGIF,
					Usage: "write an animation to this GIF file",
				},
				&cli.Float64Flag{
					Name:  demoFlagInflationRadius,
					Usage: "obstacle inflation radius in cells",
				},
				localPlannerFlag(),
				&cli.StringFlag{
					Name:  demoFlagGlobalPlanner,
					Usage: "global planner: astar, dijkstra or theta_star",
				},
				&cli.StringFlag{
					Name:  demoFlagHeuristic,
					Usage: "A* heuristic: manhattan, euclidean, octile or zero",
				},
				&cli.BoolFlag{
					Name:  demoFlagDynamic,
					Usage: "simulate the configured moving obstacles",
				},
				&cli.BoolFlag{
					Name:  demoFlagNoDynamic,
					Usage: "ignore the configured moving obstacles",
				},
				&cli.IntFlag{
					Name:  demoFlagReplanInterval,
					Usage: "ticks between periodic replans",
				},
				&cli.IntFlag{
					Name:  demoFlagMaxReplans,
					Usage: "replan budget; 0 means unlimited",
				},
				&cli.BoolFlag{
					Name:  demoFlagLocalization,
					Usage: "track the robot with the EKF",
				},
				&cli.BoolFlag{
					Name:  demoFlagNoLocalization,
					Usage: "use perfect localization",
				},
				&cli.Float64Flag{
					Name:  demoFlagLookahead,
					Usage: "pure pursuit lookahead distance",
				},
				&cli.Float64Flag{
					Name:  demoFlagSpeed,
					Usage: "pure pursuit linear speed",
				},
			},
			Action: DemoAction,
		},
		{
			Name:      "benchmark",
			Usage:     "run seeded trials between random start and goal cells",
			UsageText: "navsim benchmark [--config FILE] [--trials N] [other options]",
			Flags: []cli.Flag{
				configFlag(),
				debugFlag(),
				&cli.IntFlag{
					Name:  benchFlagTrials,
					Value: defaultBenchmarkTrials,
					Usage: "number of start/goal pairs",
				},
				&cli.Uint64Flag{
					Name:  benchFlagSeed,
					Usage: "seed for start/goal sampling",
				},
				&cli.IntFlag{
					Name:  benchFlagWorkers,
					Usage: "trials run in parallel; defaults to the number of CPUs",
				},
				&cli.PathFlag{
					Name:  benchFlagCSV,
					Value: defaultBenchmarkCSV,
					Usage: "write one row per trial to this CSV file",
				},
				&cli.PathFlag{
					Name:  benchFlagSummaryCSV,
					Usage: "write one summary row per planner to this CSV file",
				},
				&cli.StringSliceFlag{
					Name:  benchFlagPlanners,
					Usage: "global planners to compare, or \"all\"; defaults to the configured planner",
				},
				localPlannerFlag(),
				&cli.PathFlag{
					Name:  benchFlagChart,
					Usage: "write the first planner's summary chart to this PNG file",
				},
				&cli.PathFlag{
					Name:  benchFlagCompareChart,
					Usage: "write a planner comparison chart to this PNG file",
				},
				&cli.PathFlag{
					Name:  benchFlagReadme,
					Usage: "replace the benchmark table inside this markdown file",
				},
			},
			Action: BenchmarkAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of scenario files",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
