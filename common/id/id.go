// Package id generates unique int64 identifiers for all entities.
package id

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	once sync.Once
	node *snowflake.Node
)

// New returns a new snowflake id. The node number comes from SNOWFLAKE_NODE
// and defaults to 1.
func New() int64 {
	once.Do(func() {
		n := int64(1)
		if raw := os.Getenv("SNOWFLAKE_NODE"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				panic(fmt.Sprintf("invalid SNOWFLAKE_NODE %q: %v", raw, err))
			}
			n = parsed
		}
		var err error
		node, err = snowflake.NewNode(n)
		if err != nil {
			panic(fmt.Sprintf("creating snowflake node: %v", err))
		}
	})
	return node.Generate().Int64()
}
