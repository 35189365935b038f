package engine

import (
	"github.com/tutu-network/amas/internal/domain"
	"github.com/tutu-network/amas/internal/infra/linalg"
	"github.com/tutu-network/amas/internal/infra/memory"
	"github.com/tutu-network/amas/internal/infra/modeling"
	"github.com/tutu-network/amas/internal/infra/vocabulary"
)

// defaultTargetReviewCount and defaultTargetMinutes are the burden
// denominators: a learner whose cumulative event count and reported study
// minutes fall below these carries a light burden and relaxes toward a
// higher dynamic retention target.
const (
	defaultTargetReviewCount = 50.0
	defaultTargetMinutes     = 30.0
)

// updateResult carries what the decision stage needs out of the
// modeling/memory/vocabulary pipeline.
type updateResult struct {
	features        domain.FeatureVector
	motivationDelta float64
}

func derefOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// update folds one raw event into the user's cognitive/affective state,
// the touched item's memory-decay models, and its vocabulary
// specializations, then builds the feature vector the decision ensemble
// scores candidates against.
func (e *Engine) update(b *bundle, ev domain.RawEvent, opts domain.ProcessOptions) updateResult {
	nowMs := e.clock.NowMs()
	now := e.clock.NowTimestamp()

	hasPrior := b.state.EventCount > 0
	minutesSinceLast := 0.0
	if hasPrior && !b.state.LastEvent.IsZero() {
		minutesSinceLast = now.Sub(b.state.LastEvent).Minutes()
		if minutesSinceLast < 0 {
			minutesSinceLast = 0
		}
	}

	accuracy := 0.0
	if ev.IsCorrect {
		accuracy = 1.0
	}

	phi := modeling.ApplyToState(e.cfg.ADF, &b.state, b.prevAttentionPhi, modeling.ADFInputs{
		Accuracy:           accuracy,
		ResponseTimeMs:     ev.ResponseTimeMs,
		BaselineRTMs:       b.baselineRTMs,
		PauseCount:         ev.PauseCount,
		SwitchCount:        ev.SwitchCount,
		FocusLossMs:        derefOr(ev.FocusLossMs, 0),
		InteractionDensity: derefOr(ev.InteractionDensity, 0.5),
	})
	b.prevAttentionPhi = phi

	errorTrend := 0.0
	if len(b.accuracyWindow.Values) >= 2 {
		errorTrend = -linalg.OLSSlope(b.accuracyWindow.Values)
		if errorTrend < 0 {
			errorTrend = 0
		}
	}
	rtIncrease := 0.0
	if b.baselineRTMs > 0 {
		rtIncrease = (ev.ResponseTimeMs - b.baselineRTMs) / b.baselineRTMs
		if rtIncrease < 0 {
			rtIncrease = 0
		}
	}

	var item *itemMemory
	repeatErrors := 0
	if ev.WordID != "" {
		item = b.itemFor(ev.WordID, nowMs, e.cfg.MSMT)
		repeatErrors = item.consecutiveIncorrect
	}

	behavioral := modeling.UpdateBehavioral(e.cfg.Fatigue, b.state.Fatigue, modeling.BehavioralInputs{
		ErrorTrend:       errorTrend,
		RTIncrease:       rtIncrease,
		RepeatErrors:     repeatErrors,
		MinutesSinceLast: minutesSinceLast,
		HasPriorEvent:    hasPrior,
	})
	studyMinutes := derefOr(opts.StudyDurationMinutes, 0)
	b.state.Fatigue = modeling.Fuse(e.cfg.Fatigue, behavioral, opts.VisualFatigueScore, opts.VisualFatigueConfidence, studyMinutes)

	outcome := modeling.OutcomeIncorrect
	switch {
	case ev.IsQuit:
		outcome = modeling.OutcomeQuit
	case ev.IsCorrect:
		outcome = modeling.OutcomeCorrect
	}
	prevMotivation := b.state.Motivation
	b.state.Motivation = modeling.UpdateMotivation(e.cfg.Motivation, prevMotivation, outcome)
	motivationDelta := b.state.Motivation - prevMotivation

	b.state.Cognitive.Mem = modeling.UpdateMem(e.cfg.Cognitive, b.state.Cognitive.Mem, accuracy)
	b.state.Cognitive.Speed = modeling.UpdateSpeed(e.cfg.Cognitive, ev.ResponseTimeMs, b.baselineRTMs)
	b.accuracyWindow.Push(accuracy)
	b.state.Cognitive.Stability = modeling.UpdateStability(e.cfg.Cognitive, b.state.Cognitive.Stability, b.accuracyWindow)

	b.state.VARK = modeling.UpdateVARK(e.cfg.VARK, b.state.VARK, ev.QuestionType, ev.IsCorrect)

	if ev.IsCorrect {
		b.state.Streak++
	} else {
		b.state.Streak = 0
	}

	hintsUsed := 0
	if ev.HintUsed {
		hintsUsed = 1
	}

	predictedRecall := 0.5
	if item != nil {
		elapsedMs := float64(nowMs - item.mdm.LastReviewTs)
		nowHours := float64(nowMs) / 3600000
		msmtRecall := memory.RecallProbability(e.cfg.MSMT, memory.Combined(item.trace, e.cfg.MSMT, nowHours))
		plfRecall := modeling.Retrievability(e.cfg.PLF, elapsedMs, len(item.trace.Events), 5, 0)
		predictedRecall = (msmtRecall + plfRecall) / 2

		quality := memory.Quality(ev.IsCorrect, ev.ResponseTimeMs, hintsUsed)
		item.mdm = memory.Update(e.cfg.MDM, item.mdm, quality, nowMs)
		item.trace.Push(memory.TraceEvent{TimestampHours: nowHours, IsCorrect: ev.IsCorrect})

		if ev.IsCorrect {
			item.consecutiveIncorrect = 0
		} else {
			item.consecutiveIncorrect++
		}

		mtpBonus := vocabulary.MTPBonus(b.morphemeContext(ev.WordID))
		iadPenalty := vocabulary.IADPenalty(b.confusions[ev.WordID], b.recentWords)

		history := append(b.context[ev.WordID], vocabulary.ContextEntry{
			HourOfDay:    ev.Timestamp.Hour(),
			DayOfWeek:    int(ev.Timestamp.Weekday()),
			QuestionType: ev.QuestionType,
			DeviceType:   ev.DeviceType,
		})
		b.context[ev.WordID] = history
		evmBonus := vocabulary.EVMBonus(history)

		responseTimeFactor := linalg.Clamp01(1 - ev.ResponseTimeMs/30000)
		rawScore := memory.Score(e.cfg.Mastery, accuracy, responseTimeFactor, float64(hintsUsed), b.state.Streak, b.state.Trend.String())
		adjustedScore := linalg.Clamp01(rawScore + mtpBonus - iadPenalty + evmBonus)
		b.trendWindow.Push(adjustedScore)

		prevTrend := b.state.Trend
		b.state.Trend = modeling.Classify(e.cfg.Trend, b.trendWindow)
		if b.state.Trend != prevTrend {
			e.recordChange(b, "trend", "", prevTrend.String(), b.state.Trend.String(), now)
		}

		burden := memory.Burden(float64(b.state.EventCount+1), defaultTargetReviewCount, studyMinutes, defaultTargetMinutes)
		dynamicTarget := memory.DynamicTarget(e.cfg.RTarget, burden)
		wasMastered := item.mastered
		item.mastered = memory.Declared(adjustedScore, dynamicTarget)
		if item.mastered && !wasMastered {
			e.recordChange(b, "mastered", ev.WordID, "false", "true", now)
		}

		prevLevel := 0.0
		if m, ok := b.morphemes[ev.WordID]; ok {
			prevLevel = m.MasteryLevel
		}
		newLevel := prevLevel + quality*0.5
		if newLevel > 5 {
			newLevel = 5
		}
		b.morphemes[ev.WordID] = vocabulary.MorphemeState{MorphemeID: ev.WordID, MasteryLevel: newLevel}

		b.pushRecentWord(ev.WordID)
	}

	b.baselineRTMs = e.cfg.Cognitive.BaselineAlpha*ev.ResponseTimeMs + (1-e.cfg.Cognitive.BaselineAlpha)*b.baselineRTMs

	b.state.Clamp()
	b.state.EventCount++
	b.state.LastEvent = now

	return updateResult{
		features:        buildFeatures(b.state, predictedRecall),
		motivationDelta: motivationDelta,
	}
}
