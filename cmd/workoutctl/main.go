// workoutctl consulta e grava o tracker pela linha de comando, falando com o
// relay (ou direto com o Apps Script, com --direct).
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/GoOnOutdoor/janz-tracker/internal/config"
	"github.com/GoOnOutdoor/janz-tracker/internal/models"
	"github.com/GoOnOutdoor/janz-tracker/internal/sheets"
	"github.com/GoOnOutdoor/janz-tracker/internal/store"
	"github.com/GoOnOutdoor/janz-tracker/pkg/utils"
)

const defaultAPI = "http://localhost:8080/api/sheets"

var (
	flagAPI    string
	flagDirect bool
	flagConfig string

	saveWeek      int
	saveExercise  string
	saveValue     float64
	saveNotes     string
	saveOverwrite bool

	latestWeek     int
	latestExercise string
)

func main() {
	// .env opcional, igual ao servidor
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "workoutctl",
		Short:         "Tracker do programa de 8 semanas (barras, l-sit, dips)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", defaultAPI, "endpoint do relay")
	rootCmd.PersistentFlags().BoolVar(&flagDirect, "direct", false, "falar direto com o Apps Script (SHEETS_URL)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", os.Getenv("WORKOUT_CONFIG"), "arquivo TOML de configuração")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Lista todas as entradas da planilha",
		RunE:  runFetch,
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Registra uma medição",
		RunE:  runSave,
	}
	saveCmd.Flags().IntVar(&saveWeek, "week", 0, "semana do programa (1-8)")
	saveCmd.Flags().StringVar(&saveExercise, "exercise", "", "exercício: barras, lsit ou dips")
	saveCmd.Flags().Float64Var(&saveValue, "value", 0, "medição (reps ou segundos)")
	saveCmd.Flags().StringVar(&saveNotes, "notes", "", "anotação livre")
	saveCmd.Flags().BoolVar(&saveOverwrite, "overwrite", false, "substituir as entradas anteriores do par")
	_ = saveCmd.MarkFlagRequired("week")
	_ = saveCmd.MarkFlagRequired("exercise")
	_ = saveCmd.MarkFlagRequired("value")

	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Mostra a última medição de um par semana/exercício",
		RunE:  runLatest,
	}
	latestCmd.Flags().IntVar(&latestWeek, "week", 0, "semana do programa (1-8)")
	latestCmd.Flags().StringVar(&latestExercise, "exercise", "", "exercício: barras, lsit ou dips")
	_ = latestCmd.MarkFlagRequired("week")
	_ = latestCmd.MarkFlagRequired("exercise")

	rootCmd.AddCommand(fetchCmd, saveCmd, latestCmd)

	if err := rootCmd.Execute(); err != nil {
		utils.Log.Error(err.Error())
		os.Exit(1)
	}
}

func newManager() (*store.Manager, error) {
	endpoint := flagAPI
	if flagDirect {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		if cfg.SheetsURL == "" {
			return nil, fmt.Errorf("SHEETS_URL não configurado.")
		}
		endpoint = cfg.SheetsURL
	}
	client := sheets.NewClient(sheets.ClientOptions{BaseURL: endpoint})
	return store.NewManager(store.ManagerOptions{Gateway: client, Logger: utils.Log}), nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}
	if err := m.Load(context.Background()); err != nil {
		return err
	}

	entries := m.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Week != entries[j].Week {
			return entries[i].Week < entries[j].Week
		}
		return entries[i].Exercise < entries[j].Exercise
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEMANA\tBLOCO\tEXERCÍCIO\tVALOR\tDATA\tNOTAS")
	for _, entry := range entries {
		blockName := ""
		if block, ok := models.BlockForWeek(entry.Week); ok {
			blockName = block.Name
		}
		unit := ""
		if cfg, ok := models.ExerciseByID(entry.Exercise); ok {
			unit = cfg.Unit
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%g %s\t%s\t%s\n",
			entry.Week, blockName, entry.Exercise, entry.Value, unit, entry.Date, entry.Notes)
	}
	return w.Flush()
}

func runSave(cmd *cobra.Command, args []string) error {
	if saveWeek < 1 || saveWeek > models.TotalWeeks {
		return fmt.Errorf("semana fora do programa: %d", saveWeek)
	}
	exercise := models.ParseExercise(saveExercise)
	if string(exercise) != saveExercise {
		return fmt.Errorf("exercício desconhecido: %q", saveExercise)
	}

	m, err := newManager()
	if err != nil {
		return err
	}
	// Carrega o estado antes para a semântica de overwrite ter o que remover
	// localmente; a planilha aplica a dela do lado do script.
	if err := m.Load(context.Background()); err != nil {
		return err
	}

	input := models.SaveInput{
		Week:     saveWeek,
		Exercise: exercise,
		Value:    saveValue,
		Notes:    saveNotes,
	}
	if saveOverwrite {
		input.Mode = models.ModeOverwrite
	}

	saved, err := m.Save(context.Background(), input)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Salvo: semana %d, %s = %g (%s)\n",
		saved.Week, saved.Exercise, saved.Value, saved.Date)
	if p, ok := models.ProgressFor(m.Entries(), saved.Week, saved.Exercise); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Progresso: %g/%g %s (%.0f%%)\n",
			p.Value, p.Target, p.Unit, p.Percent)
	}
	return nil
}

func runLatest(cmd *cobra.Command, args []string) error {
	exercise := models.ParseExercise(latestExercise)
	if string(exercise) != latestExercise {
		return fmt.Errorf("exercício desconhecido: %q", latestExercise)
	}

	m, err := newManager()
	if err != nil {
		return err
	}
	if err := m.Load(context.Background()); err != nil {
		return err
	}

	entry, ok := m.LatestFor(latestWeek, exercise)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Sem registro para semana %d, %s\n", latestWeek, exercise)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Semana %d, %s: %g (%s)\n",
		entry.Week, entry.Exercise, entry.Value, entry.Date)
	if entry.Notes != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Notas: "+entry.Notes)
	}
	return nil
}
