// Package victory evaluates the campaign's endings, scores a finished
// campaign and derives what carries over into the next one.
//
// The six endings are an ordered list of pure predicates over a campaign
// and its phase states. Several may hold on the same turn; the earliest in
// Order wins. Once an ending is latched it never changes.
package victory
