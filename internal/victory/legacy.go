package victory

import "github.com/roach88/eldritch/internal/campaign"

// Perk is a bonus carried into a new campaign.
type Perk struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	Bonus       campaign.Resources `json:"bonus" yaml:"bonus"`
}

var perks = []Perk{
	{ID: "whispers_of_the_joke", Name: "Whispers of the Joke", Description: "Start with the truth already half told.",
		Bonus: campaign.Resources{SanityFragments: 200}},
	{ID: "old_bloodlines", Name: "Old Bloodlines", Description: "Start with summoning power to spare.",
		Bonus: campaign.Resources{EldritchPower: 300}},
	{ID: "hidden_hands", Name: "Hidden Hands", Description: "Start with sleepers already placed.",
		Bonus: campaign.Resources{CorruptionIndex: 20, Cultists: 10}},
	{ID: "open_doors", Name: "Open Doors", Description: "Start with a few converts who remember.",
		Bonus: campaign.Resources{Psychics: 3, Hybrids: 2}},
	{ID: "clean_hands", Name: "Clean Hands", Description: "Start with followers who trust the cult.",
		Bonus: campaign.Resources{Cultists: 25}},
	{ID: "remade_flesh", Name: "Remade Flesh", Description: "Start with hybrids at the cult's side.",
		Bonus: campaign.Resources{Hybrids: 5}},
	{ID: "hard_lessons", Name: "Hard Lessons", Description: "Start with the survivors of the last purge.",
		Bonus: campaign.Resources{Cultists: 15, SanityFragments: 100}},
	{ID: "favored", Name: "Favored", Description: "The Old Ones remember a flawless servant.",
		Bonus: campaign.Resources{ElderFavor: 50, EldritchPower: 200}},
	{ID: "seasoned", Name: "Seasoned", Description: "A capable cult leaves capable heirs.",
		Bonus: campaign.Resources{EldritchPower: 100}},
}

var endingPerk = map[string]string{
	string(EndingCosmicJoke):                            "whispers_of_the_joke",
	string(EndingTotalDomination):                       "old_bloodlines",
	string(EndingShadowEmpire):                          "hidden_hands",
	string(EndingTranscendence):                         "open_doors",
	string(EndingTranscendence) + "/" + VariantRedeemed: "clean_hands",
	string(EndingDarkConvergence):                       "remade_flesh",
	string(EndingBanishment):                            "hard_lessons",
}

var gradePerk = map[Grade]string{
	GradeS: "favored",
	GradeA: "seasoned",
}

// PerkByID looks up a perk.
func PerkByID(id string) (Perk, bool) {
	for _, p := range perks {
		if p.ID == id {
			return p, true
		}
	}
	return Perk{}, false
}

// Perks returns the perks a finished campaign earns: one for the ending
// and, for the top grades, one for the score.
func Perks(a Achieved, g Grade) []Perk {
	var out []Perk
	id, ok := endingPerk[string(a.Ending)+"/"+a.Variant]
	if !ok {
		id = endingPerk[string(a.Ending)]
	}
	if p, ok := PerkByID(id); ok {
		out = append(out, p)
	}
	if p, ok := PerkByID(gradePerk[g]); ok && !a.Loss() {
		out = append(out, p)
	}
	return out
}

// ApplyPerks adds each perk's bonus to a starting snapshot.
func ApplyPerks(snap *campaign.Snapshot, ps []Perk) {
	for _, p := range ps {
		r := &snap.Resources
		r.SanityFragments += p.Bonus.SanityFragments
		r.EldritchPower += p.Bonus.EldritchPower
		r.CorruptionIndex += p.Bonus.CorruptionIndex
		r.ElderFavor += p.Bonus.ElderFavor
		r.Cultists += p.Bonus.Cultists
		r.Psychics += p.Bonus.Psychics
		r.Hybrids += p.Bonus.Hybrids
	}
}
