// Package tree defines the read-only tree contracts consumed by the layout
// engine and a reference weighted tree implementation.
//
// # Contracts
//
// [Tree] is the navigation shape shared by input trees and the rectangle
// trees produced by package layout. [Weighted] adds a weight per node.
// Children are exposed as iter.Seq values that may be ranged over any number
// of times. Implementations that know their child counts up front can also
// implement [ChildCounter] so consumers can size buffers.
//
// # Model
//
// [Model] is a map-backed tree with O(1) parent and weight lookup and
// insertion-ordered children. Adding a node can propagate its weight to all
// ancestors, which keeps the invariant weight(n) >= sum(weight(children))
// when every node is added with propagation:
//
//	m := tree.NewModel[string, int64](weight.Int64())
//	m.SetRoot("root", 0)
//	m.Add("a", 6, "root")
//	m.Add("b", 4, "root")
//	m.Weight("root") // 10
//
// # Traversal
//
// [BreadthFirst] and [DepthFirst] walk any Tree, including layout results.
//
// # JSON
//
// [ReadJSON] and [WriteJSON] use a nested format where every node has a
// name, an optional weight and optional children. Node identifiers are the
// slash-joined names from the root ("root/src/main.go").
package tree
