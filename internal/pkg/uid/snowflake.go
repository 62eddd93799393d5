package uid

import (
	"crypto/rand"
	"math/big"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs using Twitter's snowflake layout.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator.
//
// The node number comes from the NODE_ID environment variable when set,
// otherwise a random node in [0, 1024) is used.
func NewSnowflake() (*Snowflake, error) {
	nodeID := int64(-1)
	if v := os.Getenv("NODE_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeID = n
		}
	}

	if nodeID < 0 || nodeID > 1023 {
		n, err := rand.Int(rand.Reader, big.NewInt(1024))
		if err != nil {
			return nil, err
		}
		nodeID = n.Int64()
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
