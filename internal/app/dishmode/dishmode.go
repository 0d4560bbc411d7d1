// Package dishmode holds the dish-mode transition graph as a static data
// table, with a short interpreter on top.
package dishmode

import (
	"github.com/looplab/fsm"
)

// Mode is one of the nine rolled-up dish operating modes.
type Mode string

// Mode values.
const (
	Startup     Mode = "STARTUP"
	Shutdown    Mode = "SHUTDOWN"
	StandbyLP   Mode = "STANDBY_LP"
	StandbyFP   Mode = "STANDBY_FP"
	Maintenance Mode = "MAINTENANCE"
	Stow        Mode = "STOW"
	Config      Mode = "CONFIG"
	Operate     Mode = "OPERATE"
	Unknown     Mode = "UNKNOWN"
)

// AllModes enumerates every node in the graph.
var AllModes = []Mode{Startup, Shutdown, StandbyLP, StandbyFP, Maintenance, Stow, Config, Operate, Unknown}

// Command names that drive a dish-mode edge. Commands not listed here
// (Track, TrackStop, Slew, Scan, EndScan, TrackLoadStaticOff, SetKValue,
// ApplyPointingModel, Abort, ResetTrackTable) do not themselves move
// dishMode and are admissible from any mode at this graph's level; their own
// finer-grained preconditions are enforced by the command map, not this
// graph.
const (
	CmdSetStandbyLPMode   = "SetStandbyLPMode"
	CmdSetStandbyFPMode   = "SetStandbyFPMode"
	CmdSetOperateMode     = "SetOperateMode"
	CmdSetStowMode        = "SetStowMode"
	CmdSetMaintenanceMode = "SetMaintenanceMode"
	CmdConfigureBand1     = "ConfigureBand1"
	CmdConfigureBand2     = "ConfigureBand2"
	CmdConfigureBand3     = "ConfigureBand3"
	CmdConfigureBand4     = "ConfigureBand4"
	CmdConfigureBand5a    = "ConfigureBand5a"
	CmdConfigureBand5b    = "ConfigureBand5b"
)

// ConfigureBandCommands lists all six band-configuration command names.
var ConfigureBandCommands = []string{
	CmdConfigureBand1, CmdConfigureBand2, CmdConfigureBand3,
	CmdConfigureBand4, CmdConfigureBand5a, CmdConfigureBand5b,
}

// edge is one row of the graph: a command name, its admissible source modes,
// and its destination.
type edge struct {
	command string
	from    []Mode
	to      Mode
}

// graphTable is the data backing this package: store as a static table, the
// engine is a short interpreter.
var graphTable = buildGraphTable()

func buildGraphTable() []edge {
	nonStow := make([]Mode, 0, len(AllModes)-1)
	for _, m := range AllModes {
		if m != Stow {
			nonStow = append(nonStow, m)
		}
	}

	edges := []edge{
		{command: CmdSetStowMode, from: nonStow, to: Stow},
		{command: CmdSetStandbyLPMode, from: []Mode{StandbyFP, Stow, Maintenance}, to: StandbyLP},
		{command: CmdSetStandbyFPMode, from: []Mode{StandbyLP, Stow, Operate, Maintenance, Config}, to: StandbyFP},
		{command: CmdSetOperateMode, from: []Mode{StandbyFP}, to: Operate},
		{command: CmdSetMaintenanceMode, from: []Mode{StandbyLP, StandbyFP}, to: Maintenance},
	}

	for _, cmd := range ConfigureBandCommands {
		edges = append(edges, edge{command: cmd, from: []Mode{StandbyFP, Stow, Operate}, to: Config})
	}

	return edges
}

// fsmEvents renders the graph table as looplab/fsm events, one per edge.
func fsmEvents() fsm.Events {
	events := make(fsm.Events, 0, len(graphTable))

	for _, e := range graphTable {
		src := make([]string, 0, len(e.from))
		for _, m := range e.from {
			src = append(src, string(m))
		}

		events = append(events, fsm.EventDesc{Name: e.command, Src: src, Dst: string(e.to)})
	}

	return events
}

// Graph answers admissibility and target-mode queries against the static
// table above.
type Graph struct {
	events fsm.Events
}

// NewGraph builds the dish-mode transition graph.
func NewGraph() *Graph {
	return &Graph{events: fsmEvents()}
}

// IsAllowed reports whether command may be issued while dishMode is current.
// Commands with no edge in the graph (Track, Slew, Scan, ...) are always
// allowed at this level; a false return narrows exactly to the edges this
// package owns.
func (g *Graph) IsAllowed(current Mode, command string) bool {
	if !g.isGraphCommand(command) {
		return true
	}

	machine := fsm.NewFSM(string(current), g.events, nil)

	return machine.Can(command)
}

// Target returns the destination mode for command, and whether command has
// an edge in this graph at all.
func (g *Graph) Target(command string) (Mode, bool) {
	for _, e := range graphTable {
		if e.command == command {
			return e.to, true
		}
	}

	return Unknown, false
}

func (g *Graph) isGraphCommand(command string) bool {
	_, ok := g.Target(command)
	return ok
}
