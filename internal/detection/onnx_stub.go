//go:build !gocv

package detection

import "fmt"

func openONNXNet(weightsPath string, _ []string, _ int) (Model, error) {
	return nil, fmt.Errorf("%w: cannot load %s: model support not compiled in (build with -tags gocv)",
		ErrDetection, weightsPath)
}
