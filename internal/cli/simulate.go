package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/engine"
	"github.com/tutu-network/amas/internal/infra/vision"
	"github.com/tutu-network/amas/internal/store/memstore"
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("events", "n", 20, "Number of synthetic events to feed through the engine")
	simulateCmd.Flags().Int64P("seed", "s", 1, "Random seed for the synthetic learner")
	simulateCmd.Flags().StringP("user", "u", "", "User ID to simulate (random UUID if empty)")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Feed synthetic learner events through a local engine instance",
	Long: `simulate drives an in-memory AMAS engine with a synthetic learner:
a pseudo-random mix of correct/incorrect answers across a small fixed
vocabulary, printing the chosen strategy after each event.`,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("events")
	seed, _ := cmd.Flags().GetInt64("seed")
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = uuid.NewString()
	}

	eng := engine.New(engine.DefaultConfig(), memstore.New(), engine.SystemClock{}, engine.NewSeededRNG(), nil)
	rng := rand.New(rand.NewSource(seed))
	words := []string{"aperture", "luminous", "tenuous", "cascade", "pivotal"}

	// A synthetic webcam feed: ten EAR samples per event, eyelid closure
	// drifting wider as the run progresses, so the blink/PERCLOS detectors
	// have a believable fatigue signal to hand the engine through
	// ProcessOptions instead of leaving VisualFatigueScore unset.
	blinkDet := vision.NewBlinkDetector(vision.DefaultBlinkDetectorConfig())
	perclosCalc := vision.NewPERCLOSCalculator(vision.DefaultPERCLOSConfig())
	visionClockMs := 0.0

	ctx := context.Background()
	for i := 0; i < n; i++ {
		fatigueDrift := float64(i) / float64(n)
		for s := 0; s < 10; s++ {
			visionClockMs += 100
			ear := 0.3 - fatigueDrift*0.12 + rng.Float64()*0.05
			blinkDet.Detect(ear, visionClockMs)
			perclosCalc.AddSample(ear, visionClockMs)
		}
		visualScore, visualConfidence := vision.VisualFatigueFromSignals(blinkDet.Stats(), perclosCalc.Calculate())

		ev := domain.RawEvent{
			IsCorrect:      rng.Float64() < 0.7,
			ResponseTimeMs: 1200 + rng.Float64()*3000,
			WordID:         words[rng.Intn(len(words))],
			QuestionType:   "fill_blank",
			DeviceType:     "desktop",
			Timestamp:      time.Now(),
		}
		opts := domain.ProcessOptions{
			VisualFatigueScore:      &visualScore,
			VisualFatigueConfidence: &visualConfidence,
		}
		decision, err := eng.ProcessEvent(ctx, userID, ev, opts)
		if err != nil {
			return fmt.Errorf("process event %d: %w", i, err)
		}
		line, _ := json.Marshal(map[string]any{
			"event":          i,
			"correct":        ev.IsCorrect,
			"word":           ev.WordID,
			"strategy":       decision.Strategy,
			"confidence":     decision.Confidence,
			"winner":         decision.Explanation.Algorithms,
			"recommendation": decision.Recommendation,
		})
		fmt.Fprintln(os.Stdout, string(line))
	}

	reward, err := eng.EndSession(ctx, userID, 0.7, fatigueAtEnd(blinkDet, perclosCalc))
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	fmt.Fprintf(os.Stdout, "session ended, deferred reward=%.3f\n", reward)
	return nil
}

// fatigueAtEnd reports the final visual-fatigue score the simulated webcam
// feed settled on, used as EndSession's end-of-session fatigue input.
func fatigueAtEnd(blinkDet *vision.BlinkDetector, perclosCalc *vision.PERCLOSCalculator) float64 {
	score, _ := vision.VisualFatigueFromSignals(blinkDet.Stats(), perclosCalc.Calculate())
	return score
}
