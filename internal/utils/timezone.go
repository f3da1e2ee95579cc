package utils

import "time"

// IST is the display zone for timestamps and sales buckets. Fixed offset, no DST.
var IST = time.FixedZone("IST", 5*3600+30*60)

func ToIST(t time.Time) time.Time {
	return t.In(IST)
}
