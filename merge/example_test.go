package merge_test

import (
	"fmt"

	"github.com/docpatch/docpatch/merge"
	"github.com/docpatch/docpatch/value"
)

func ExampleMerge() {
	target, _ := value.Decode([]byte(`{"common":{"welcome":"Welcome","goodbye":"Bye"}}`))
	source, _ := value.Decode([]byte(`{"common":{"welcome":"Bienvenue","hello":"Bonjour"}}`))

	merged := merge.Merge(target, source)

	out, _ := value.EncodeCompact(merged)
	fmt.Println(string(out))
	// Output:
	// {"common":{"welcome":"Bienvenue","goodbye":"Bye","hello":"Bonjour"}}
}

func ExampleReconcileDuplicates() {
	// A hand-edited catalog ended up with "greeting" twice.
	doc, _ := value.Decode([]byte(`{"greeting":{"morning":"Guten Morgen"},"greeting":{"evening":"Guten Abend"}}`))

	clean := merge.ReconcileDuplicates(doc)

	out, _ := value.EncodeCompact(clean)
	fmt.Println(string(out))
	// Output:
	// {"greeting":{"morning":"Guten Morgen","evening":"Guten Abend"}}
}
