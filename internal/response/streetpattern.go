package response

import "github.com/lox/handsight/internal/handstore"

// Base response frequencies by street and sizing bucket, calibrated on
// population tendencies: folds rise with bet size and with later streets,
// and an open shove is never raised over the top.
var streetPattern = map[string]map[SizingBucket]Frequencies{
	handstore.StreetFlop: {
		BucketSmall:     {Fold: 0.40, Call: 0.50, Raise: 0.10},
		BucketMedium:    {Fold: 0.60, Call: 0.30, Raise: 0.10},
		BucketLarge:     {Fold: 0.80, Call: 0.15, Raise: 0.05},
		BucketVeryLarge: {Fold: 0.90, Call: 0.08, Raise: 0.02},
		BucketAllIn:     {Fold: 0.70, Call: 0.30, Raise: 0.00},
	},
	handstore.StreetTurn: {
		BucketSmall:     {Fold: 0.30, Call: 0.60, Raise: 0.10},
		BucketMedium:    {Fold: 0.50, Call: 0.40, Raise: 0.10},
		BucketLarge:     {Fold: 0.70, Call: 0.25, Raise: 0.05},
		BucketVeryLarge: {Fold: 0.85, Call: 0.12, Raise: 0.03},
		BucketAllIn:     {Fold: 0.60, Call: 0.40, Raise: 0.00},
	},
	handstore.StreetRiver: {
		BucketSmall:     {Fold: 0.25, Call: 0.65, Raise: 0.10},
		BucketMedium:    {Fold: 0.40, Call: 0.50, Raise: 0.10},
		BucketLarge:     {Fold: 0.60, Call: 0.30, Raise: 0.10},
		BucketVeryLarge: {Fold: 0.80, Call: 0.15, Raise: 0.05},
		BucketAllIn:     {Fold: 0.50, Call: 0.50, Raise: 0.00},
	},
}

// BaseFrequencies returns the street-pattern base triple for a street and
// sizing bucket. Preflop actions use the flop row (the table is calibrated
// postflop); the second return is false when a fallback row was used.
func BaseFrequencies(street string, bucket SizingBucket) (Frequencies, bool) {
	row, ok := streetPattern[street]
	exact := ok
	if !ok {
		row = streetPattern[handstore.StreetFlop]
	}

	base, ok := row[bucket]
	if !ok {
		base = row[BucketMedium]
		exact = false
	}
	return base, exact
}
