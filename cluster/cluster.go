// Package cluster holds the in-process view of the compute cluster.
// Topology discovery and membership are external collaborators; the
// engine only reads node identity and attributes.
package cluster

import (
	"sync"

	"github.com/google/uuid"

	"github.com/overmesh/gridexec/events"
	"github.com/overmesh/gridexec/model"
	derror "github.com/overmesh/gridexec/pkg/errors"
)

// Node is one cluster member. Each node owns its event bus.
type Node struct {
	id         model.NodeID
	attributes map[string]string
	local      bool

	bus *events.Bus
}

// NewNode creates a node with the given attributes. The instance name is
// stored under model.AttrInstanceName.
func NewNode(instanceName string, attributes map[string]string, local bool) *Node {
	attrs := make(map[string]string, len(attributes)+1)
	for k, v := range attributes {
		attrs[k] = v
	}
	attrs[model.AttrInstanceName] = instanceName

	return &Node{
		id:         model.NodeID(uuid.New().String()),
		attributes: attrs,
		local:      local,
		bus:        events.NewBus(),
	}
}

// ID returns the node's unique ID.
func (n *Node) ID() model.NodeID {
	return n.id
}

// Attribute returns the value of a node attribute, or "" if unset.
func (n *Node) Attribute(name string) string {
	return n.attributes[name]
}

// InstanceName returns the node's human-readable instance name.
func (n *Node) InstanceName() string {
	return n.attributes[model.AttrInstanceName]
}

// IsLocal reports whether the node runs in the local process.
func (n *Node) IsLocal() bool {
	return n.local
}

// Bus returns the node's lifecycle event bus.
func (n *Node) Bus() *events.Bus {
	return n.bus
}

// Cluster is a set of nodes a task can be mapped onto.
type Cluster struct {
	mu    sync.RWMutex
	nodes []*Node
}

// New creates an empty cluster.
func New() *Cluster {
	return &Cluster{}
}

// AddNode appends a member to the cluster view.
func (c *Cluster) AddNode(node *Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = append(c.nodes, node)
}

// Nodes returns a snapshot of the full cluster view.
func (c *Cluster) Nodes() []*Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]*Node, len(c.nodes))
	copy(snapshot, c.nodes)
	return snapshot
}

// Size returns the number of cluster members.
func (c *Cluster) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Node looks a member up by ID.
func (c *Cluster) Node(id model.NodeID) (*Node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, node := range c.nodes {
		if node.ID() == id {
			return node, nil
		}
	}
	return nil, derror.ErrNodeNotFound.GenWithStackByArgs(id)
}

// NodeByName looks a member up by its instance-name attribute.
func (c *Cluster) NodeByName(instanceName string) (*Node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, node := range c.nodes {
		if node.InstanceName() == instanceName {
			return node, nil
		}
	}
	return nil, derror.ErrNodeNotFound.GenWithStackByArgs(instanceName)
}

// Projection resolves a caller-specified subset of the cluster by
// instance name. An empty argument selects the whole cluster.
func (c *Cluster) Projection(instanceNames []string) ([]*Node, error) {
	if len(instanceNames) == 0 {
		return c.Nodes(), nil
	}

	nodes := make([]*Node, 0, len(instanceNames))
	for _, name := range instanceNames {
		node, err := c.NodeByName(name)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Close releases every node's event bus.
func (c *Cluster) Close() {
	for _, node := range c.Nodes() {
		node.Bus().Close()
	}
}
