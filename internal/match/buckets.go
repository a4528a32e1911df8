package match

import "strings"

// Bucket is a canonical experience level.
type Bucket string

const (
	BucketEntry  Bucket = "entry-level"
	BucketMid    Bucket = "mid-level"
	BucketSenior Bucket = "senior"
)

// bucketFragments lists the free-text fragments that identify each bucket in a
// posting's experience field.
var bucketFragments = map[Bucket][]string{
	BucketEntry:  {"0-1", "0-2", "1-2", "1+", "entry", "junior", "intern", "graduate"},
	BucketMid:    {"2-5", "3-5", "2+", "3+", "4+", "mid", "intermediate"},
	BucketSenior: {"5+", "5-10", "7+", "10+", "senior", "lead", "principal"},
}

// Buckets lists the canonical buckets in display order.
func Buckets() []Bucket {
	return []Bucket{BucketEntry, BucketMid, BucketSenior}
}

// ResolveBucket maps a user-facing experience value to its bucket. Anything
// outside the three buckets, including "any", is reported as not found.
func ResolveBucket(raw string) (Bucket, bool) {
	b := Bucket(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := bucketFragments[b]; !ok {
		return "", false
	}
	return b, true
}

// Fragments returns a copy of the bucket's synonym fragments.
func (b Bucket) Fragments() []string {
	return append([]string(nil), bucketFragments[b]...)
}
