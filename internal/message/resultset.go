package message

// ResultSet maps organization display names to the messages found for
// them.  Organizations are kept in the order they were first added;
// an organization with no messages is never present.
type ResultSet struct {
	orgs []string
	msgs map[string][]*Enriched
}

func NewResultSet() *ResultSet {
	return &ResultSet{msgs: make(map[string][]*Enriched)}
}

// Add appends msgs to org's list, registering org on first use.
// Adding no messages is a no-op.
func (s *ResultSet) Add(org string, msgs ...*Enriched) {
	if len(msgs) == 0 {
		return
	}
	if _, ok := s.msgs[org]; !ok {
		s.orgs = append(s.orgs, org)
	}
	s.msgs[org] = append(s.msgs[org], msgs...)
}

// Organizations returns the organizations with at least one message,
// in discovery order.
func (s *ResultSet) Organizations() []string {
	return append([]string(nil), s.orgs...)
}

// Messages returns the messages kept for org, in the order added.
func (s *ResultSet) Messages(org string) []*Enriched {
	return s.msgs[org]
}

// Has reports whether any message was kept for org.
func (s *ResultSet) Has(org string) bool {
	_, ok := s.msgs[org]
	return ok
}

// Len returns the number of organizations with messages.
func (s *ResultSet) Len() int {
	return len(s.orgs)
}

// Each calls fn for every message, organization by organization.
// Iteration stops at the first error, which is returned.
func (s *ResultSet) Each(fn func(org string, msg *Enriched) error) error {
	for _, org := range s.orgs {
		for _, msg := range s.msgs[org] {
			if err := fn(org, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Total returns the number of messages across all organizations.
func (s *ResultSet) Total() int {
	n := 0
	for _, org := range s.orgs {
		n += len(s.msgs[org])
	}
	return n
}

// Missing returns the members of all that have no entry in s.
func (s *ResultSet) Missing(all []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, org := range all {
		if s.Has(org) || seen[org] {
			continue
		}
		seen[org] = true
		out = append(out, org)
	}
	return out
}
