package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"ngc-lexer/packages/compiler/src/core"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "ngc-lex").
		WithSynopsis("ngc-lex [opts] command [opts]").
		WithDescription("ngc-lex tokenizes Angular-style HTML templates.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lexMain(cfg, cc, args)
		}).
		WithSubs(
			TokenizeCommand(cfg),
			ScanCommand(cfg),
			DiffCommand(cfg),
			TypesCommand(cfg),
			VersionCommand())
}

func TokenizeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TokenizeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("tokenize").
		WithAliases("t", "tok").
		WithSynopsis("tokenize [-filter expr] [-strict] [files]").
		WithDescription("Tokenize template files, or stdin for -, and print the tokens.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tokenize(cfg, cc, args)
		})
	cfg.Tokenize = cmd
	return cmd
}

func ScanCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ScanConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("scan").
		WithSynopsis("scan [-strict] [dirs]").
		WithDescription("Find @Component templates in TypeScript sources and tokenize them.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return scan(cfg, cc, args)
		})
	cfg.Scan = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithSynopsis("diff [-spans] from to").
		WithDescription("Compare the token streams of two templates.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("types").
		WithSynopsis("types").
		WithDescription("List the token types.").
		WithRun(func(cc *cli.Context, args []string) error {
			return types(cfg, cc, args)
		})
	cfg.Types = cmd
	return cmd
}

func VersionCommand() *cli.Command {
	return cli.NewCommand("version").
		WithSynopsis("version").
		WithDescription("Print the ngc-lex version.").
		WithRun(func(cc *cli.Context, args []string) error {
			_, err := fmt.Fprintf(cc.Out, "ngc-lex %s\n", core.VERSION)
			return err
		})
}
