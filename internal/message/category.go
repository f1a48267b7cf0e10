package message

// Category is the application-lifecycle class assigned to a message.
// The set is closed; Categories lists every value.
type Category int

const (
	ApplicationSubmitted Category = iota
	ApplicationRejected
	InterviewRequest
	ApplicationRelated
	Other

	// Error marks a message that could not be fetched or decoded.
	// Keyword rules never produce it.
	Error

	numCategories
)

var categoryNames = [numCategories]string{
	ApplicationSubmitted: "Application Submitted",
	ApplicationRejected:  "Application Rejected",
	InterviewRequest:     "Interview Request",
	ApplicationRelated:   "Application Related",
	Other:                "Other",
	Error:                "Error",
}

var categoryLabels = [numCategories]string{
	ApplicationSubmitted: "Submitted",
	ApplicationRejected:  "Rejected",
	InterviewRequest:     "Interview",
	ApplicationRelated:   "Related",
	Other:                "Other",
	Error:                "Error",
}

func (c Category) String() string {
	if !c.Valid() {
		return "Unknown"
	}
	return categoryNames[c]
}

// Label is the short name offered to an operator during review.
func (c Category) Label() string {
	if !c.Valid() {
		return "Unknown"
	}
	return categoryLabels[c]
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// Categories returns every category in declaration order.
func Categories() []Category {
	all := make([]Category, numCategories)
	for i := range all {
		all[i] = Category(i)
	}
	return all
}

// Reviewable returns the categories an operator may assign by hand.
func Reviewable() []Category {
	return []Category{
		ApplicationSubmitted,
		ApplicationRejected,
		InterviewRequest,
		ApplicationRelated,
		Other,
	}
}

// Counts holds a tally per category.
type Counts [numCategories]int

// Add increments the tally for c.  Out of range values are ignored.
func (n *Counts) Add(c Category) {
	if c.Valid() {
		n[c]++
	}
}

// Get returns the tally for c.
func (n *Counts) Get(c Category) int {
	if !c.Valid() {
		return 0
	}
	return n[c]
}
