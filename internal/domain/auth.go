package domain

// SubjectType identifies who a token was issued to.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
	SubjectTypeAgent SubjectType = "AGENT"
)

// Valid reports whether s is a known subject type.
func (s SubjectType) Valid() bool {
	return s == SubjectTypeAdmin || s == SubjectTypeAgent
}
