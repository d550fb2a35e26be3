package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/R4Sput1n/trading212-tax-calculator-PL/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Optional .env, for GEMINI_API_KEY and friends.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	// Shell completion, handled before flag parsing.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"process":   {Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl"), "offline": predict.Nothing}},
			"calculate": {Flags: map[string]complete.Predictor{"year": predict.Nothing, "l": predict.Files("*.jsonl"), "o": predict.Files("*.xlsx"), "no-excel": predict.Nothing}},
			"matches":   {Flags: map[string]complete.Predictor{"year": predict.Nothing, "l": predict.Files("*.jsonl")}},
			"dividends": {Flags: map[string]complete.Predictor{"year": predict.Nothing, "l": predict.Files("*.jsonl")}},
			"holdings":  {Flags: map[string]complete.Predictor{"l": predict.Files("*.jsonl")}},
			"rate":      {Flags: map[string]complete.Predictor{"d": predict.Nothing}},
			"topic":     {Args: predict.Set{"readme", "fifo", "dividends", "rates", "pit-38", "workflow"}},
			"assist":    {},
		},
		Flags: map[string]complete.Predictor{"config": predict.Files("*.toml")},
	}
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
