package policy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tabbyrobin/sigsum/crypto"
)

// rawGroup is a group record before reference resolution.
type rawGroup struct {
	combinator string
	members    []string
	line       int
}

// parser accumulates records across the first pass.
type parser struct {
	logs      []Entity
	witnesses []Entity
	byName    map[string]Entity
	groups    map[string]rawGroup
	quorum    string
	quorumSet bool
}

// ParseFile reads and parses a policy file.
func ParseFile(name string) (*Policy, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses a policy document. Records may appear in any order; a
// quorum record's referent must be declared somewhere in the same
// document.
func Parse(r io.Reader) (*Policy, error) {
	p := &parser{
		byName: make(map[string]Entity),
		groups: make(map[string]rawGroup),
	}

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "log":
			err = p.addLog(fields[1:], n)
		case "witness":
			err = p.addWitness(fields[1:], n)
		case "group":
			err = p.addGroup(fields[1:], n)
		case "quorum":
			err = p.setQuorum(fields[1:], n)
		default:
			err = fmt.Errorf("%w: line %d: unknown record %q", ErrParse, n, fields[0])
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return p.resolve()
}

func (p *parser) addLog(args []string, line int) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: line %d: log takes a key and an optional url", ErrParse, line)
	}
	pub, err := crypto.PublicKeyFromHex(args[0])
	if err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
	}
	log := Entity{PublicKey: pub, KeyHash: crypto.HashBytes(pub[:])}
	if len(args) == 2 {
		log.URL = args[1]
	}
	p.logs = append(p.logs, log)
	return nil
}

func (p *parser) addWitness(args []string, line int) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: line %d: witness takes a name, a key and an optional url", ErrParse, line)
	}
	name := args[0]
	if err := p.checkFreshName(name, line); err != nil {
		return err
	}
	pub, err := crypto.PublicKeyFromHex(args[1])
	if err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
	}
	w := Entity{Name: name, PublicKey: pub, KeyHash: crypto.HashBytes(pub[:])}
	if len(args) == 3 {
		w.URL = args[2]
	}
	p.witnesses = append(p.witnesses, w)
	p.byName[name] = w
	return nil
}

func (p *parser) addGroup(args []string, line int) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: line %d: group takes a name, a combinator and members", ErrParse, line)
	}
	name := args[0]
	if err := p.checkFreshName(name, line); err != nil {
		return err
	}
	combinator := args[1]
	switch combinator {
	case "any", "all":
	default:
		k, err := strconv.Atoi(combinator)
		if err != nil || k < 1 {
			return fmt.Errorf("%w: line %d: combinator must be any, all or a positive count", ErrParse, line)
		}
	}
	p.groups[name] = rawGroup{combinator: combinator, members: args[2:], line: line}
	return nil
}

func (p *parser) setQuorum(args []string, line int) error {
	if p.quorumSet {
		return fmt.Errorf("%w: line %d: duplicate quorum record", ErrParse, line)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: line %d: quorum takes exactly one name", ErrParse, line)
	}
	p.quorum = args[0]
	p.quorumSet = true
	return nil
}

func (p *parser) checkFreshName(name string, line int) error {
	if name == "none" {
		return fmt.Errorf("%w: line %d: the name %q is reserved", ErrParse, line, name)
	}
	if _, dup := p.byName[name]; dup {
		return fmt.Errorf("%w: line %d: duplicate name %q", ErrParse, line, name)
	}
	if _, dup := p.groups[name]; dup {
		return fmt.Errorf("%w: line %d: duplicate name %q", ErrParse, line, name)
	}
	return nil
}

// resolve runs the second pass: quorum and group references are bound
// to declared witnesses and groups, with cycle detection.
func (p *parser) resolve() (*Policy, error) {
	if !p.quorumSet {
		return nil, fmt.Errorf("%w: missing quorum record", ErrParse)
	}

	pol := &Policy{
		logs:      p.logs,
		witnesses: p.witnesses,
		byHash:    make(map[crypto.Hash]Entity, len(p.witnesses)),
	}
	for _, w := range p.witnesses {
		pol.byHash[w.KeyHash] = w
	}

	if p.quorum == "none" {
		pol.quorum = quorumNone{}
		return pol, nil
	}
	q, err := p.resolveName(p.quorum, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	pol.quorum = q
	return pol, nil
}

func (p *parser) resolveName(name string, visiting map[string]bool) (Quorum, error) {
	if w, ok := p.byName[name]; ok {
		return quorumWitness{keyHash: w.KeyHash}, nil
	}
	g, ok := p.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a declared witness or group", ErrReference, name)
	}
	if visiting[name] {
		return nil, fmt.Errorf("%w: group %q references itself", ErrReference, name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	members := make([]Quorum, 0, len(g.members))
	for _, m := range g.members {
		q, err := p.resolveName(m, visiting)
		if err != nil {
			return nil, err
		}
		members = append(members, q)
	}

	k := 0
	switch g.combinator {
	case "any":
		k = 1
	case "all":
		k = len(members)
	default:
		k, _ = strconv.Atoi(g.combinator)
		if k > len(members) {
			return nil, fmt.Errorf("%w: group %q requires %d of %d members", ErrReference, name, k, len(members))
		}
	}
	return quorumThreshold{k: k, members: members}, nil
}
