package patch

// BookPatch holds the mutable catalog fields; nil fields are left untouched.
type BookPatch struct {
	Title           *string
	Author          *string
	Category        *string
	IssueYear       *int32
	AvailableCopies *int32
}

func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Category == nil &&
		p.IssueYear == nil && p.AvailableCopies == nil
}
