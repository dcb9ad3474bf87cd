package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Skili43/survey-tool/internal/models"
	"github.com/Skili43/survey-tool/internal/services"
)

var (
	verbose  bool
	bankPath string

	genThemes    []string
	genTone      string
	genLength    string
	genObjective string
	genOrg       string
	genFormat    string
	genSeq       bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "surveyctl",
	Short: "Generate engagement surveys and score free-text answers offline",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the themes of the question bank",
	Args:  cobra.NoArgs,
	RunE:  runThemes,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question list",
	Long: `Generates a question list from the bank and prints it.

Formats:
  json   share payload (orgName, objectif, anonymous, questions)
  csv    empty response template, one column per question
  text   one question per line

Example:
  surveyctl generate --themes Engagement,Burnout --tone supportive --length short`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var scoreCmd = &cobra.Command{
	Use:   "score [text...]",
	Short: "Score free text with the sentiment lexicon",
	Long: `Scores each argument, or each line of stdin when no argument is given,
and prints the score in [-1, 1] with its percentage.`,
	RunE: runScore,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&bankPath, "bank", "", "question bank YAML (default: embedded bank)")

	def := models.DefaultSurvey()
	generateCmd.Flags().StringSliceVar(&genThemes, "themes", def.Themes, "themes to draw from, in order")
	generateCmd.Flags().StringVar(&genTone, "tone", string(def.Tone), "neutral, supportive or direct")
	generateCmd.Flags().StringVar(&genLength, "length", string(def.Length), "short, standard or long")
	generateCmd.Flags().StringVar(&genObjective, "objective", def.Objective, "survey objective")
	generateCmd.Flags().StringVar(&genOrg, "org", def.OrgName, "organization name")
	generateCmd.Flags().StringVar(&genFormat, "format", "json", "json, csv or text")
	generateCmd.Flags().BoolVar(&genSeq, "seq", false, "sequential question ids (q_1, q_2, ...)")

	rootCmd.AddCommand(themesCmd, generateCmd, scoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadBank() (*services.Bank, error) {
	b, err := services.LoadBank(bankPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("question bank loaded", zap.String("path", bankPath), zap.Int("themes", len(b.ThemeNames())))
	return b, nil
}

func runThemes(cmd *cobra.Command, args []string) error {
	b, err := loadBank()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "THEME\tLIKERT\tOPEN")
	for _, th := range b.Themes() {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", th.Name, len(th.Likert), len(th.Open))
	}
	return tw.Flush()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	b, err := loadBank()
	if err != nil {
		return err
	}
	for _, th := range genThemes {
		if !b.HasTheme(th) {
			logger.Warn("unknown theme ignored", zap.String("theme", th))
		}
	}
	var ids services.IDGenerator
	if genSeq {
		ids = services.SequentialIDs("q")
	}
	sv := models.DefaultSurvey()
	sv.OrgName = genOrg
	sv.Objective = genObjective
	sv.Themes = genThemes
	sv.Tone = models.ParseTone(genTone)
	sv.Length = models.ParseLength(genLength)
	sv.Questions = services.NewGenerator(b, ids).Generate(services.GenerateConfig{
		Objective: sv.Objective,
		Themes:    sv.Themes,
		Tone:      sv.Tone,
		Length:    sv.Length,
	})
	logger.Debug("questions generated", zap.Int("count", len(sv.Questions)), zap.String("length", string(sv.Length)))

	out := cmd.OutOrStdout()
	switch genFormat {
	case "json":
		data, err := services.ToSharePayload(sv)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "csv":
		_, err := fmt.Fprintln(out, services.ToTable(sv.Questions, nil))
		return err
	case "text":
		for i, q := range sv.Questions {
			fmt.Fprintf(out, "%2d. [%s/%s] %s\n", i+1, q.Type, q.Theme, q.Text)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", genFormat)
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	texts := args
	if len(texts) == 0 {
		var err error
		texts, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	scores := make([]float64, 0, len(texts))
	for _, text := range texts {
		s := services.Score(text)
		scores = append(scores, s)
		fmt.Fprintf(out, "%+.3f\t%d%%\t%s\n", s, services.SentimentPercent(s), text)
	}
	if len(scores) > 1 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		avg := sum / float64(len(scores))
		fmt.Fprintf(out, "%+.3f\t%d%%\t(moyenne)\n", avg, services.SentimentPercent(avg))
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
