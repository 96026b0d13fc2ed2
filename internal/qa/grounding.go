package qa

import "docqa/internal/domain"

// CheckGrounding rejects an answer that shares no token with the question.
// A semantically close but lexically unrelated sentence is treated as no
// answer at all.
func CheckGrounding(question, answer string) error {
	if Overlap(question, answer) == 0 {
		return domain.ErrNotGrounded
	}
	return nil
}
