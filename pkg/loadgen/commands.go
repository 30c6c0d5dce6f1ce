package loadgen

import "fmt"

// getRunCommand returns the rload invocation replaying the given trace file.
func getRunCommand(config Config, tracePath string) string {
	return fmt.Sprintf("%s -t %s", config.PathToBinary, tracePath)
}
