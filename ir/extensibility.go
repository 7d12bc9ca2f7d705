package ir

import "github.com/east-lang/east/types"

// Builtin calls a registered builtin.Func by name (spec §4.D "Builtin(name,
// type_params, args)"). TypeParams carries the type arguments a generic
// builtin (e.g. the comparison family, dispatched on operand type) was
// instantiated with; the evaluator resolves name to a builtin.Func once at
// compile time (spec §4.E: "the evaluator looks it up once at compile
// time, not per call").
type Builtin struct {
	base
	Name       string        `json:"name"`
	TypeParams []*types.Type `json:"typeParams,omitempty"`
	Args       []Node        `json:"args"`
}

func (Builtin) NodeType() string { return "Builtin" }

// Platform calls a host-registered platform function by name (spec
// §4.D/§4.F.4, §6.4). Async must match host.Table.IsAsync(Name) exactly;
// the IR builder is responsible for keeping these consistent (the
// evaluator trusts base.Async_ rather than re-querying the table per
// call).
type Platform struct {
	base
	Name string `json:"name"`
	Args []Node `json:"args"`
}

func (Platform) NodeType() string { return "Platform" }
