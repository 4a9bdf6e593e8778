// Package corruption implements the Corruption doctrine: an infiltration
// graph of influence nodes and compromised people, sleeper-cell operations,
// memetic agents that spread like an epidemic, dream rituals and the puppet
// legislation a captured government can pass.
package corruption
