package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/ai"
	"github.com/pkondratev/contrib-compass/internal/analysis"
	"github.com/pkondratev/contrib-compass/internal/github"
	"github.com/pkondratev/contrib-compass/internal/logger"
	"github.com/pkondratev/contrib-compass/internal/secrets"
)

const (
	PromptChat       = "Chat about a match"
	PromptDumpToFile = "Dump results to file"
	PromptExit       = "Exit"
	PromptBack       = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptChat, PromptDumpToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis for a GitHub user",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("user", "u", "", "github username to analyze")
	runCmd.Flags().StringP("output", "o", "", "write the analysis result to this file as JSON")
	runCmd.Flags().BoolP("non-interactive", "y", false, "skip the interactive prompt after the analysis")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	logg.Info("starting contrib-compass", zap.String("version", version))

	username := strings.TrimSpace(cmd.Flag("user").Value.String())
	if username == "" {
		logg.Fatal("github username is required", zap.String("hint", "pass it with --user"))
	}

	token, err := resolveGitHubToken(config)
	if err != nil {
		logg.Fatal("loading github token", zap.Error(err))
	}
	if token == "" {
		logg.Debug("no github token configured, using unauthenticated rate limits")
	}

	gh := newGitHubClient(logg, config, token)

	pipeline := analysis.New(gh, config.GitHub.Org, logg).
		WithStatus(func(status string) {
			logg.Info(status)
		})

	result, err := pipeline.Run(ctx, username)
	if err != nil {
		logg.Fatal("analysis failed", zap.String("username", username), zap.Error(err))
	}

	logg.Info("analysis complete",
		zap.String("user", result.User.Login),
		zap.Int("skills", len(result.Skills)),
		zap.Int("matches", len(result.Matches)),
	)

	reportTopMatches(logg, result)

	if output := cmd.Flag("output").Value.String(); output != "" {
		if err := result.ToFile(output); err != nil {
			logg.Fatal("writing result file", zap.Error(err))
		}
		logg.Info("wrote analysis result", zap.String("filename", output))
	}

	if strings.EqualFold(cmd.Flag("non-interactive").Value.String(), "true") {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logg.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, logg, config, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logg.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, logg *zap.Logger, config *Config, result *analysis.Result) error {
	switch action {
	case PromptChat:
		return chatLoop(ctx, logg, config, result)
	case PromptDumpToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logg.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logg.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// chatLoop lets the operator pick a match and ask questions about it until
// they back out.
func chatLoop(ctx context.Context, logg *zap.Logger, config *Config, result *analysis.Result) error {
	if !config.AI.Enabled {
		logg.Info("ai chat is disabled in the config")
		return nil
	}

	if len(result.Matches) == 0 {
		logg.Info("no matches to chat about")
		return nil
	}

	apiKey, err := resolveAIKey(config.AI)
	if err != nil {
		return fmt.Errorf("loading ai api key: %w", err)
	}

	generator, err := newGenerator(ctx, config.AI, apiKey, "")
	if err != nil {
		return fmt.Errorf("building ai generator: %w", err)
	}

	assistant := ai.NewAssistant(generator, aiLogger(logg, config.AI, ""), config.AI.MaxLogLength)

	for {
		items := make([]string, 0, len(result.Matches)+1)
		for _, match := range result.Matches {
			items = append(items, fmt.Sprintf("%s (score %d)", match.Project.Name, match.Score))
		}

		matchPrompt := promptui.Select{
			Label: "Choose a project and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, selected, err := matchPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		questionPrompt := promptui.Prompt{Label: "Question"}
		question, err := questionPrompt.Run()
		if err != nil {
			return err
		}

		answer, err := assistant.Answer(ctx, result.Matches[idx].Project, question)
		if err != nil {
			logg.Warn("chat completion failed", zap.Error(err))
			continue
		}

		fmt.Printf("\n%s\n\n", answer)
	}
}

// reportTopMatches logs the ranked matches the way the UI would present them.
func reportTopMatches(logg *zap.Logger, result *analysis.Result) {
	type entry struct {
		Project         string `json:"project"`
		Score           int    `json:"score"`
		Reason          string `json:"reason"`
		GoodFirstIssues int    `json:"good_first_issues"`
	}

	report := make([]entry, 0, len(result.Matches))
	for _, match := range result.Matches {
		report = append(report, entry{
			Project:         match.Project.Name,
			Score:           match.Score,
			Reason:          match.Reason,
			GoodFirstIssues: len(match.GoodFirstIssues),
		})
	}

	// do not bother error since the report is built from parseable data
	pretty, _ := json.MarshalIndent(report, "", "  ")
	logg.Info(fmt.Sprintf("ranked matches: \n%s", pretty))
}

func resolveGitHubToken(config *Config) (string, error) {
	tokenFile := strings.TrimSpace(config.GitHub.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("github.token-file"))
	}

	return secrets.LoadOptional(secrets.Source{
		Name: "github token",
		File: tokenFile,
		Env:  "GITHUB_TOKEN",
	})
}

func newGitHubClient(logg *zap.Logger, config *Config, token string) *github.Client {
	gh := github.New(logg, token)
	if config.GitHub.APIURL != "" {
		gh.APIURL = config.GitHub.APIURL
	}
	if config.GitHub.UserAgent != "" {
		gh.UserAgent = config.GitHub.UserAgent
	}
	return gh
}
