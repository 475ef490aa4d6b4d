// internal/registry/registry.go
package registry

import "fmt"

// Address is a node address on the display bus.
type Address uint8

// Index is the position of a node in the registry.
// It is the only handle the fault tracker and status aggregator accept.
type Index int

// Role names the display segment a node drives.
type Role uint8

const (
	RolePlayer1Tens Role = iota
	RolePlayer1Units
	RolePlayer1Set1
	RolePlayer1Set2
	RolePlayer1Set3
	RolePlayer2Tens
	RolePlayer2Units
	RolePlayer2Set1
	RolePlayer2Set2
	RolePlayer2Set3
	RoleMatchHours
	RoleMatchMinutes
	RoleMatchSeconds
)

var roleNames = [...]string{
	"p1_tens", "p1_units", "p1_set1", "p1_set2", "p1_set3",
	"p2_tens", "p2_units", "p2_set1", "p2_set2", "p2_set3",
	"match_hours", "match_minutes", "match_seconds",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Node is one registry entry.
type Node struct {
	Role    Role
	Address Address
}

// Player 1 numbers ascend from the left edge, player 2 descends from the
// right edge, so the two ranges meet in the middle of the board.
const (
	AddrPlayer1Tens  Address = 0x01
	AddrPlayer1Units Address = 0x02
	AddrPlayer1Set1  Address = 0x03
	AddrPlayer1Set2  Address = 0x04
	AddrPlayer1Set3  Address = 0x05

	AddrPlayer2Tens  Address = 0x0A
	AddrPlayer2Units Address = 0x09
	AddrPlayer2Set1  Address = 0x08
	AddrPlayer2Set2  Address = 0x07
	AddrPlayer2Set3  Address = 0x06

	AddrMatchHours   Address = 0x0B
	AddrMatchMinutes Address = 0x0C
	AddrMatchSeconds Address = 0x0D
)

// Polled is the reference deployment: the ten score digit nodes.
// The match clock nodes only listen to broadcasts.
var Polled = []Node{
	{RolePlayer1Tens, AddrPlayer1Tens},
	{RolePlayer1Units, AddrPlayer1Units},
	{RolePlayer1Set1, AddrPlayer1Set1},
	{RolePlayer1Set2, AddrPlayer1Set2},
	{RolePlayer1Set3, AddrPlayer1Set3},
	{RolePlayer2Tens, AddrPlayer2Tens},
	{RolePlayer2Units, AddrPlayer2Units},
	{RolePlayer2Set1, AddrPlayer2Set1},
	{RolePlayer2Set2, AddrPlayer2Set2},
	{RolePlayer2Set3, AddrPlayer2Set3},
}

// Registry maps node index <-> bus address.
// Immutable after New.
type Registry struct {
	nodes []Node
	index map[Address]Index
}

// New builds a registry from a node table.
// Duplicate addresses are rejected so the mapping stays a bijection.
func New(nodes []Node) (*Registry, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("registry: at least one node required")
	}
	if len(nodes) > 13 {
		// presence bits share a uint16 with the three battery flags
		return nil, fmt.Errorf("registry: %d nodes exceed the 13 presence bits", len(nodes))
	}

	r := &Registry{
		nodes: append([]Node(nil), nodes...),
		index: make(map[Address]Index, len(nodes)),
	}
	for i, n := range r.nodes {
		if prev, dup := r.index[n.Address]; dup {
			return nil, fmt.Errorf(
				"registry: address 0x%02X used by %s and %s",
				uint8(n.Address), r.nodes[prev].Role, n.Role,
			)
		}
		r.index[n.Address] = Index(i)
	}
	return r, nil
}

// Default returns the registry of the reference deployment.
func Default() *Registry {
	r, err := New(Polled)
	if err != nil {
		panic(err)
	}
	return r
}

// Len is the number of registered nodes (N).
func (r *Registry) Len() int { return len(r.nodes) }

// Invalid is the sentinel returned for addresses outside the table.
// It is never a usable array index.
func (r *Registry) Invalid() Index { return Index(len(r.nodes) + 1) }

// Valid reports whether i indexes a registered node.
func (r *Registry) Valid(i Index) bool { return i >= 0 && int(i) < len(r.nodes) }

// ResolveIndex translates a bus address into its registry index.
func (r *Registry) ResolveIndex(addr Address) Index {
	if i, ok := r.index[addr]; ok {
		return i
	}
	return r.Invalid()
}

// Address returns the bus address of node i.
func (r *Registry) Address(i Index) (Address, bool) {
	if !r.Valid(i) {
		return 0, false
	}
	return r.nodes[i].Address, true
}

// Role returns the display role of node i.
func (r *Registry) Role(i Index) (Role, bool) {
	if !r.Valid(i) {
		return 0, false
	}
	return r.nodes[i].Role, true
}

// Nodes returns a copy of the node table.
func (r *Registry) Nodes() []Node {
	return append([]Node(nil), r.nodes...)
}
