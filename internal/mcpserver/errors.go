package mcpserver

import (
	"fmt"

	"github.com/macward/vibemcp/internal/facade"
)

// toolError turns a façade OperationError into the plain Go error the MCP
// SDK surfaces to the calling client as a tool-call failure. The kind is
// folded into the message since the SDK's CallTool error path carries a
// single string, not a structured taxonomy.
func toolError(opErr *facade.OperationError) error {
	if opErr == nil {
		return nil
	}
	return fmt.Errorf("%s: %s", opErr.Kind, opErr.Message)
}
