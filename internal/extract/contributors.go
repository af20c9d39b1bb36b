// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/Vesihiisi/Biblioteksdata/internal/record"
)

// Role is a recognized contributor role.
type Role string

const (
	RoleAuthor      Role = "author"
	RoleEditor      Role = "editor"
	RoleIllustrator Role = "illustrator"
	RoleTranslator  Role = "translator"
)

var knownRoles = map[string]Role{
	"author":      RoleAuthor,
	"aut":         RoleAuthor,
	"editor":      RoleEditor,
	"edt":         RoleEditor,
	"illustrator": RoleIllustrator,
	"ill":         RoleIllustrator,
	"translator":  RoleTranslator,
	"trl":         RoleTranslator,
}

// Contributor is one agent credited with one role. Agent is the authority
// record id when the agent is linked, Name the display name otherwise.
type Contributor struct {
	Role  Role
	Agent string
	Name  string
}

// Linked reports whether the contributor points at an authority record.
func (c Contributor) Linked() bool { return c.Agent != "" }

// Contributors returns every credited agent with a recognized role. An
// entry without a role counts as an author only when it is the primary
// contribution; entries whose roles are all unrecognized are skipped.
func Contributors(rec *record.SourceRecord) []Contributor {
	entries := rec.Contribution.Nodes("contribution")
	if len(entries) == 0 {
		if work, ok := rec.Description.Node("instanceOf"); ok {
			entries = work.Nodes("contribution")
		}
	}

	var out []Contributor
	for _, e := range entries {
		agent, ok := e.Node("agent")
		if !ok {
			continue
		}
		id, name := agentIdentity(agent)
		if id == "" && name == "" {
			continue
		}
		for _, role := range entryRoles(e) {
			out = append(out, Contributor{Role: role, Agent: id, Name: name})
		}
	}
	return out
}

func entryRoles(e *record.Node) []Role {
	var raw []string
	for _, n := range e.Nodes("role") {
		raw = append(raw, record.LastSegment(n.ID()))
	}
	raw = append(raw, e.Strings("role")...)
	if len(raw) == 0 {
		if e.Type() == "PrimaryContribution" {
			return []Role{RoleAuthor}
		}
		return nil
	}

	seen := make(map[Role]bool)
	var out []Role
	for _, r := range raw {
		role, ok := knownRoles[strings.ToLower(record.LastSegment(r))]
		if !ok || seen[role] {
			continue
		}
		seen[role] = true
		out = append(out, role)
	}
	return out
}

// agentIdentity returns the authority id of a linked agent, and a display
// name built from the agent's name fields.
func agentIdentity(agent *record.Node) (id, name string) {
	if raw := agent.ID(); raw != "" && !strings.HasPrefix(raw, "_:") {
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		id = record.LastSegment(raw)
	}
	given, _ := agent.Text("givenName")
	family, _ := agent.Text("familyName")
	name = clean(strings.TrimSpace(clean(given) + " " + clean(family)))
	if name == "" {
		if n, ok := agent.Text("name"); ok {
			name = clean(n)
		}
	}
	if name == "" {
		if n, ok := agent.Text("label"); ok {
			name = clean(n)
		}
	}
	return id, name
}
