package devserver

import (
	"unicode"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/wire"
)

type factorText struct{ label, insight string }

var factorsEN = map[emotion.ID]factorText{
	emotion.SuperHappy: {"Positive Achievement", "Sense of accomplishment or joy"},
	emotion.Pumped:     {"Excitement", "Energized feelings about the situation"},
	emotion.Cozy:       {"Comfort", "Feeling of safety and warmth"},
	emotion.Chill:      {"Relaxation", "Calm and peaceful state"},
	emotion.Content:    {"Satisfaction", "Feeling fulfilled and at peace"},
	emotion.Fuming:     {"Frustration", "Anger about the situation"},
	emotion.FreakedOut: {"Anxiety", "Worry and uncertainty"},
	emotion.MadAsHell:  {"Intense Anger", "Strong negative reaction"},
	emotion.Blah:       {"Apathy", "Lack of motivation or interest"},
	emotion.Down:       {"Sadness", "Low mood and disappointment"},
	emotion.BoredStiff: {"Monotony", "Lack of stimulation"},
}

var factorsZH = map[emotion.ID]factorText{
	emotion.SuperHappy: {"积极成就", "成就感或喜悦"},
	emotion.Pumped:     {"兴奋", "对情况充满活力的感觉"},
	emotion.Cozy:       {"舒适", "安全和温暖的感觉"},
	emotion.Chill:      {"放松", "平静和平和的状态"},
	emotion.Content:    {"满足", "感到充实和平静"},
	emotion.Fuming:     {"挫折感", "对情况的愤怒"},
	emotion.FreakedOut: {"焦虑", "担忧和不确定"},
	emotion.MadAsHell:  {"强烈愤怒", "强烈的负面反应"},
	emotion.Blah:       {"冷漠", "缺乏动力或兴趣"},
	emotion.Down:       {"悲伤", "低落的情绪和失望"},
	emotion.BoredStiff: {"单调", "缺乏刺激"},
}

// Filler factors keep the analysis at three entries when fewer emotions
// were picked.
var (
	fillerEN = []factorText{
		{"Emotional response", "Feelings about the situation"},
		{"Daily rhythm", "How the days have been flowing lately"},
		{"Inner voice", "What you keep telling yourself about it"},
	}
	fillerZH = []factorText{
		{"情绪反应", "对情况的感受"},
		{"日常节奏", "最近生活的节奏"},
		{"内心声音", "你对自己说的话"},
	}
)

const analysisFactors = 3

// analyze derives the story analysis from the selected emotions. The
// language is "zh" when text contains Han characters and "en" otherwise.
func analyze(text string, ids []emotion.ID) *wire.StoryAnalysis {
	lang, table, filler, central := "en", factorsEN, fillerEN, "Current situation"
	if hasHan(text) {
		lang, table, filler, central = "zh", factorsZH, fillerZH, "当前情况"
	}

	a := &wire.StoryAnalysis{CentralStressor: central, Language: lang}
	for _, id := range ids {
		if len(a.Factors) == analysisFactors {
			break
		}
		if f, ok := table[id]; ok {
			a.Factors = append(a.Factors, wire.StoryFactor{Factor: f.label, Insight: f.insight})
		}
	}
	for i := 0; len(a.Factors) < analysisFactors; i++ {
		f := filler[i]
		a.Factors = append(a.Factors, wire.StoryFactor{Factor: f.label, Insight: f.insight})
	}
	return a
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
