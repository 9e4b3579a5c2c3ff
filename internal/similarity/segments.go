package similarity

import "strings"

// Segment is one word-aligned span of the source text that matched a span of
// the target text.
type Segment struct {
	Text       string
	Similarity float64
	Start      int
	End        int
}

// FindMatchingSegments slides fixed windows of minLength words over both
// texts and reports every source window whose best edit-distance ratio
// against any target window meets threshold. The scan is quadratic in the
// window counts, so targets longer than maxTargetWords are refused outright;
// callers must pre-truncate or window long targets themselves.
func FindMatchingSegments(source, target string, minLength int, threshold float64, maxTargetWords int) []Segment {
	if minLength <= 0 {
		return nil
	}
	srcWords := strings.Fields(source)
	tgtWords := strings.Fields(target)
	if maxTargetWords > 0 && len(tgtWords) > maxTargetWords {
		return nil
	}
	if len(srcWords) < minLength || len(tgtWords) < minLength {
		return nil
	}

	out := make([]Segment, 0)
	for i := 0; i+minLength <= len(srcWords); i++ {
		srcSeg := strings.Join(srcWords[i:i+minLength], " ")
		best := 0.0
		for j := 0; j+minLength <= len(tgtWords); j++ {
			tgtSeg := strings.Join(tgtWords[j:j+minLength], " ")
			if r := EditRatio(srcSeg, tgtSeg); r > best {
				best = r
			}
		}
		if best >= threshold {
			out = append(out, Segment{
				Text:       srcSeg,
				Similarity: best,
				Start:      i,
				End:        i + minLength,
			})
		}
	}
	return out
}
