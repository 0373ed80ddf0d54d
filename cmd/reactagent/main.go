// Command reactagent answers a question with a ReAct loop over an
// OpenAI-compatible model and a small set of web and arithmetic tools.
//
// Usage:
//
//	reactagent "What is the population of Rome divided by 3?"
//	reactagent --reasoning-mode think_tool --max-steps 5 "..."
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leofalp/reactloop/patterns/react"
	"github.com/leofalp/reactloop/providers/ai/middleware"
	"github.com/leofalp/reactloop/providers/ai/openai"
	"github.com/leofalp/reactloop/providers/observability"
	"github.com/leofalp/reactloop/providers/observability/slogobs"
	"github.com/leofalp/reactloop/providers/tool"
	"github.com/leofalp/reactloop/providers/tool/calculator"
	"github.com/leofalp/reactloop/providers/tool/duckduckgo"
	"github.com/leofalp/reactloop/providers/tool/serper"
	"github.com/leofalp/reactloop/providers/tool/webfetch"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		envFile       string
		maxSteps      int
		model         string
		reasoningMode string
		textProtocol  bool
	)

	cmd := &cobra.Command{
		Use:          "reactagent [question]",
		Short:        "Answer a question with a ReAct reasoning loop",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("max-steps") {
				cfg.MaxSteps = maxSteps
			}
			if flags.Changed("model") {
				cfg.Model = model
			}
			if flags.Changed("reasoning-mode") {
				cfg.ReasoningMode = reasoningMode
			}
			if flags.Changed("text-protocol") {
				cfg.TextProtocol = textProtocol
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			obs := slogobs.New()
			return run(ctx, cmd, cfg, obs, strings.Join(args, " "))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.IntVar(&maxSteps, "max-steps", react.DefaultMaxSteps, "maximum number of reasoning steps")
	flags.StringVar(&model, "model", "gpt-4o", "model name")
	flags.StringVar(&reasoningMode, "reasoning-mode", "parameter", "reasoning mode: parameter or think_tool")
	flags.BoolVar(&textProtocol, "text-protocol", false, "use the Thought/Action/Action Input text protocol instead of native tool calls")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, cfg config, obs observability.Provider, question string) error {
	loop, err := buildLoop(cfg, obs)
	if err != nil {
		return err
	}

	result, err := loop.Run(ctx, question)
	if result == nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch result.Outcome {
	case react.OutcomeFinalAnswer:
		fmt.Fprintln(out, result.Answer)
	default:
		fmt.Fprintf(out, "no answer (%s after %d steps)\n", result.Outcome, result.Steps)
	}
	return err
}

func buildLoop(cfg config, obs observability.Provider) (*react.Loop, error) {
	mode, err := tool.ParseReasoningMode(cfg.ReasoningMode)
	if err != nil {
		return nil, err
	}

	// Thoughts reach the log through the step observer.
	catalog := tool.NewCatalog(tool.WithReasoningMode(mode))

	specs := []*tool.Spec{
		calculator.NewCalculatorTool(),
		webfetch.NewFetchTool(webfetch.NewFetcher(webfetch.WithObservability(obs))),
	}
	if cfg.SerperAPIKey != "" {
		client := serper.NewClient(cfg.SerperAPIKey,
			serper.WithCache(serper.DefaultCacheSize, serper.DefaultCacheTTL),
			serper.WithObservability(obs),
		)
		specs = append(specs, serper.NewSearchTool(client), serper.NewAccessURLTool(client))
	} else {
		obs.Info(context.Background(), "SERPER_API_KEY not set, searching with DuckDuckGo")
		specs = append(specs, duckduckgo.NewSearchTool(duckduckgo.NewClient(duckduckgo.WithObservability(obs))))
	}
	if err := catalog.Register(specs...); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	llmOpts := []react.LLMOption{react.WithModel(cfg.Model)}
	if cfg.TextProtocol {
		llmOpts = append(llmOpts, react.WithTextProtocol())
	}
	middlewares := []middleware.Middleware{middleware.Logging(obs, middleware.LogLevelStandard)}
	if cfg.LLMRetries > 0 {
		middlewares = append(middlewares, middleware.Retry(middleware.RetryConfig{
			MaxRetries:    cfg.LLMRetries,
			Observability: obs,
		}))
	}
	middlewares = append(middlewares, middleware.Timeout(cfg.LLMTimeout))
	llm := middleware.Wrap(openai.NewOpenAIProvider(cfg.OpenAIAPIKey).WithBaseURL(cfg.OpenAIBaseURL), middlewares...)

	return react.New(react.NewLLMProvider(llm, llmOpts...), catalog,
		react.WithMaxSteps(cfg.MaxSteps),
		react.WithObserver(react.NewLogObserver(obs)),
		react.WithObservability(obs),
	)
}
