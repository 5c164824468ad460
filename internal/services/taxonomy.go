package services

// Canonical algorithm-pattern labels. This table is versioned data:
// extending the taxonomy means editing this file, never patterns.go.
const (
	PatternBFS              = "BFS"
	PatternDFS              = "DFS"
	PatternBinarySearch     = "Binary Search"
	PatternDynamicProg      = "Dynamic Programming"
	PatternTwoPointers      = "Two Pointers"
	PatternSlidingWindow    = "Sliding Window"
	PatternHashTable        = "Hash Table"
	PatternHeap             = "Heap"
	PatternStack            = "Stack"
	PatternQueue            = "Queue"
	PatternTrie             = "Trie"
	PatternUnionFind        = "Union Find"
	PatternTopologicalSort  = "Topological Sort"
	PatternShortestPath     = "Shortest Path"
	PatternGraphTraversal   = "Graph Traversal"
	PatternGreedy           = "Greedy"
	PatternSorting          = "Sorting"
	PatternBacktracking     = "Backtracking"
	PatternRecursion        = "Recursion"
	PatternMath             = "Math"
	PatternBitManipulation  = "Bit Manipulation"
	PatternStringMatching   = "String Matching"
	PatternStringProcessing = "String Processing"
	PatternPrefixSum        = "Prefix Sum"
	PatternSimulation       = "Simulation"
	PatternStateMachine     = "State Machine"
	PatternArrayManip       = "Array Manipulation"
	PatternTreeTraversal    = "Tree Traversal"
	PatternCounting         = "Counting"
	PatternEnumeration      = "Enumeration"
	PatternIntervals        = "Intervals"
	PatternMonotonicStack   = "Monotonic Stack"
	PatternDivideConquer    = "Divide and Conquer"
	PatternLinkedList       = "Linked List"
)

// CanonicalPatterns lists the full taxonomy in a fixed order. The order
// also drives fuzzy containment matching, so more specific labels come
// before the generic ones they contain (Monotonic Stack before Stack,
// String Matching before... there is no shorter string label, but keep
// the habit).
var CanonicalPatterns = []string{
	PatternMonotonicStack,
	PatternTopologicalSort,
	PatternShortestPath,
	PatternGraphTraversal,
	PatternTreeTraversal,
	PatternStringMatching,
	PatternStringProcessing,
	PatternBinarySearch,
	PatternDynamicProg,
	PatternTwoPointers,
	PatternSlidingWindow,
	PatternHashTable,
	PatternUnionFind,
	PatternBitManipulation,
	PatternPrefixSum,
	PatternStateMachine,
	PatternArrayManip,
	PatternDivideConquer,
	PatternLinkedList,
	PatternBFS,
	PatternDFS,
	PatternHeap,
	PatternStack,
	PatternQueue,
	PatternTrie,
	PatternGreedy,
	PatternSorting,
	PatternBacktracking,
	PatternRecursion,
	PatternMath,
	PatternSimulation,
	PatternCounting,
	PatternEnumeration,
	PatternIntervals,
}

// initializePatternVariants maps known lowercase spellings to their
// canonical label. Canonical labels map to themselves so normalization
// is idempotent.
func initializePatternVariants() map[string]string {
	variants := map[string]string{
		"breadth-first search":   PatternBFS,
		"breadth first search":   PatternBFS,
		"level order traversal":  PatternBFS,
		"depth-first search":     PatternDFS,
		"depth first search":     PatternDFS,
		"binsearch":              PatternBinarySearch,
		"bisection":              PatternBinarySearch,
		"dp":                     PatternDynamicProg,
		"memoization":            PatternDynamicProg,
		"tabulation":             PatternDynamicProg,
		"2 pointers":             PatternTwoPointers,
		"fast and slow pointers": PatternTwoPointers,
		"fast & slow pointers":   PatternTwoPointers,
		"hashmap":                PatternHashTable,
		"hash map":               PatternHashTable,
		"hashing":                PatternHashTable,
		"dictionary":             PatternHashTable,
		"priority queue":         PatternHeap,
		"min heap":               PatternHeap,
		"max heap":               PatternHeap,
		"min-heap":               PatternHeap,
		"max-heap":               PatternHeap,
		"prefix tree":            PatternTrie,
		"disjoint set":           PatternUnionFind,
		"disjoint set union":     PatternUnionFind,
		"dsu":                    PatternUnionFind,
		"toposort":               PatternTopologicalSort,
		"kahn's algorithm":       PatternTopologicalSort,
		"dijkstra":               PatternShortestPath,
		"bellman-ford":           PatternShortestPath,
		"floyd-warshall":         PatternShortestPath,
		"bitmask":                PatternBitManipulation,
		"bitwise":                PatternBitManipulation,
		"xor":                    PatternBitManipulation,
		"kmp":                    PatternStringMatching,
		"rabin-karp":             PatternStringMatching,
		"rolling hash":           PatternStringMatching,
		"cumulative sum":         PatternPrefixSum,
		"running sum":            PatternPrefixSum,
		"fsm":                    PatternStateMachine,
		"finite state machine":   PatternStateMachine,
		"matrix":                 PatternArrayManip,
		"matrix traversal":       PatternArrayManip,
		"in-place":               PatternArrayManip,
		"inorder traversal":      PatternTreeTraversal,
		"preorder traversal":     PatternTreeTraversal,
		"postorder traversal":    PatternTreeTraversal,
		"binary tree":            PatternTreeTraversal,
		"merge intervals":        PatternIntervals,
		"interval scheduling":    PatternIntervals,
		"line sweep":             PatternIntervals,
		"sweep line":             PatternIntervals,
		"monotonic queue":        PatternMonotonicStack,
		"divide & conquer":       PatternDivideConquer,
		"d&c":                    PatternDivideConquer,
		"number theory":          PatternMath,
		"combinatorics":          PatternMath,
		"geometry":               PatternMath,
		"brute force":            PatternEnumeration,
		"exhaustive search":      PatternEnumeration,
	}
	for _, canonical := range CanonicalPatterns {
		variants[lowered(canonical)] = canonical
	}
	return variants
}

// patternRule is one ordered keyword heuristic. First match wins.
type patternRule struct {
	keyword   string
	canonical string
}

// initializePatternRules returns the keyword heuristics applied after
// exact and containment matching both miss.
func initializePatternRules() []patternRule {
	return []patternRule{
		{"knapsack", PatternDynamicProg},
		{"memoiz", PatternDynamicProg},
		{"subsequence", PatternDynamicProg},
		{"optimiz", PatternGreedy},
		{"interval", PatternIntervals},
		{"substring", PatternStringProcessing},
		{"anagram", PatternStringProcessing},
		{"palindrome", PatternStringProcessing},
		{"string", PatternStringProcessing},
		{"shortest", PatternShortestPath},
		{"topolog", PatternTopologicalSort},
		{"graph", PatternGraphTraversal},
		{"tree", PatternTreeTraversal},
		{"window", PatternSlidingWindow},
		{"pointer", PatternTwoPointers},
		{"hash", PatternHashTable},
		{"heap", PatternHeap},
		{"stack", PatternStack},
		{"queue", PatternQueue},
		{"linked list", PatternLinkedList},
		{"backtrack", PatternBacktracking},
		{"recursi", PatternRecursion},
		{"permutation", PatternBacktracking},
		{"bit", PatternBitManipulation},
		{"sort", PatternSorting},
		{"search", PatternBinarySearch},
		{"count", PatternCounting},
		{"enumerat", PatternEnumeration},
		{"simulat", PatternSimulation},
		{"math", PatternMath},
		{"array", PatternArrayManip},
		{"prefix", PatternPrefixSum},
		{"greedy", PatternGreedy},
	}
}
