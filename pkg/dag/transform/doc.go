// Package transform prepares an arbitrary directed graph for layered
// layout.
//
// # Overview
//
// Pipelines drawn by users may contain cycles, self-loops and edges that
// skip several ranks. The layered layout needs an acyclic graph in which
// every edge connects consecutive rows. [Normalize] applies the steps in
// order:
//
//  1. [BreakCycles] removes back edges found by a depth-first search
//  2. [TransitiveReduction] (optional) drops edges implied by longer paths
//  3. [AssignLayers] ranks nodes by longest path from the sources
//  4. [Subdivide] splits long edges with zero-size subdivider nodes
//
// Every step iterates in insertion order, so the same input always yields
// the same normalized graph.
//
// # Usage
//
//	res := transform.Normalize(g)
//	log.Debug("normalized", "cycles", res.CyclesRemoved, "subdividers", res.SubdividersAdded)
//
// The removed edges only affect layout. Hosts keep drawing the edges of the
// original pipeline.
package transform
