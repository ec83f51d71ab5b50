package dagmodel

import "sort"

// Placement maps each function id to the node id it was placed on. An
// empty (nil or zero-length) Placement signals placement failure —
// CapacityExhausted is an ordinary outcome, not an exception.
type Placement map[FunctionID]NodeID

func sortFunctionMemoryDesc(list []FunctionMemory) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Demand != list[j].Demand {
			return list[i].Demand > list[j].Demand
		}
		return list[i].ID < list[j].ID
	})
}
