// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package launch provides the Go representation of a ROS 2 launch
// description: declared arguments, configuration actions, nodes, included
// launch files and groups, in the order the launch runtime will see them.
//
// # Core Concepts
//
//   - Substitution: a value that may reference launch configurations
//     (`$(var name)`). Substitutions keep the user's intent unevaluated until
//     the argument values of a session are known.
//
//   - Entity: one element of a Description. DeclareArgument, SetConfiguration,
//     Node, Include and Group all implement it.
//
//   - Description: the ordered list of entities. A freshly composed
//     Description is a draft; its substitutions still reference
//     configurations.
//
//   - Finalize: the second phase. It binds argument values (override first,
//     then the declared default), evaluates configuration actions in order and
//     returns a new Description in which every substitution is literal text.
//
// Why two phases?
//
// Argument values are only known when a session starts, while the shape of
// the session is fixed when it is composed. Keeping the draft separate means
// the same draft can be rendered as a reusable launch file (substitutions
// intact) or finalized for one concrete set of overrides.
package launch
