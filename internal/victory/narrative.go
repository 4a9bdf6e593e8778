package victory

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title renders an ending for display, e.g. "Total Domination".
func Title(e Ending) string {
	return title(strings.ReplaceAll(string(e), "_", " "))
}

// title uses a fresh Caser per call; a Caser is not safe for concurrent use.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

var stories = map[string]string{
	string(EndingCosmicJoke): "The truth was told in full, and the world laughed. " +
		"Not the laughter of madness but of recognition: the stars were never right or wrong, " +
		"and every summoned thing turned out to be as lost as its summoners.",
	string(EndingTotalDomination): "The Old Ones walk openly now. " +
		"Cities kneel in the shadow of impossible geometry, and what remains of humanity " +
		"works the fields of a new and alien order.",
	string(EndingShadowEmpire): "No banner was ever raised. " +
		"The courts, the papers and the counting houses answer to the cult, " +
		"and the world goes about its business never knowing who holds the leash.",
	string(EndingTranscendence): "The curricula did their work. " +
		"Students became something more than students, and humanity stepped willingly " +
		"across the threshold it had feared for so long.",
	string(EndingTranscendence) + "/" + VariantRedeemed: "The lies were confessed and the followers set free, " +
		"yet they came back by choice. What crossed the threshold did so with open eyes, " +
		"and the cult that led them is remembered as a guide rather than a predator.",
	string(EndingDarkConvergence): "The retreats emptied into something else entirely. " +
		"Those who trusted the promises were reshaped without consent, " +
		"and the convergence that followed wore a thousand borrowed faces.",
	string(EndingBanishment): "The investigators won. " +
		"The sites are salted, the entities gone, and the few surviving initiates " +
		"whisper of how close it came.",
}

var epilogues = map[Grade]string{
	GradeS: "It will be told as the flawless working of an age.",
	GradeA: "Few cults have come so near to perfection.",
	GradeB: "A sound campaign, with scars to show for it.",
	GradeC: "It was done, though not well.",
	GradeD: "The cost was almost more than the prize.",
	GradeF: "History will barely record it.",
}

// Narrative writes the closing text for a latched ending.
func Narrative(a Achieved, s Score) string {
	story, ok := stories[string(a.Ending)+"/"+a.Variant]
	if !ok {
		story = stories[string(a.Ending)]
	}
	heading := Title(a.Ending)
	if a.Variant != "" {
		heading += " (" + title(a.Variant) + ")"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s, turn %d\n\n", heading, a.Turn)
	b.WriteString(story)
	b.WriteString("\n\n")
	b.WriteString(epilogues[s.Grade])
	fmt.Fprintf(&b, "\n\nFinal score %.0f, grade %s\n", s.Total, s.Grade)
	return b.String()
}
