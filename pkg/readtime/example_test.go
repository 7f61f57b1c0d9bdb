package readtime_test

import (
	"fmt"

	"github.com/jotter/jotter/pkg/readtime"
)

func ExampleEstimate() {
	r := readtime.Estimate("Groceries", "milk eggs bread butter", 0)
	fmt.Println(r.Label)

	empty := readtime.Estimate("", "   ", 0)
	fmt.Println(empty.Label)
	// Output:
	// 1 min read
	// Less than a minute
}
