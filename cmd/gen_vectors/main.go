// gen_vectors prints namehash gold values for the test tables.
package main

import (
	"fmt"

	"github.com/supleed2/namehash/namehash"
)

func main() {
	inputs := []string{
		"", "eth", "foo.eth", "crypto", "alice.eth", "sub.foo.eth", "x",
		"000.crypto", "a..b", ".eth", "eth.", "Foo.eth", "😀.eth", "a.b.c.d.e",
	}
	for _, s := range inputs {
		fmt.Printf("%q: %q,\n", s, namehash.Sum(s).Hex())
	}
}
