// Package domination implements the Domination doctrine: ritual summoning,
// backlash, binding-strength decay and rebinding, terror campaigns, military
// engagements and the multi-stage Great Old One awakenings.
//
// Every function here is pure with respect to the campaign: it reads a
// *campaign.State and returns effects for the ledger to apply. Randomness is
// drawn only from the *dice.Roller passed in.
package domination
