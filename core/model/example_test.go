package model_test

import (
	"fmt"

	"github.com/ezoic/gdlinear/core/model"
)

// ExampleStateManager demonstrates fitted-state tracking
func ExampleStateManager() {
	state := model.NewStateManager()
	fmt.Printf("Initially fitted: %t\n", state.IsFitted())

	state.RecordTraining(3, 100, 50)
	state.RecordTraining(3, 100, 25)
	nFeatures, nSamples := state.GetDimensions()
	fmt.Printf("After training: fitted=%t features=%d samples=%d epochs=%d\n",
		state.IsFitted(), nFeatures, nSamples, state.GetState().EpochsTotal)

	state.Reset()
	fmt.Printf("After Reset: %t\n", state.IsFitted())

	// Output: Initially fitted: false
	// After training: fitted=true features=3 samples=100 epochs=75
	// After Reset: false
}

// ExampleModelWeights_WriteJSON shows the exported weight format
func ExampleModelWeights_WriteJSON() {
	w := &model.ModelWeights{
		ModelType:    "LinearRegression",
		Version:      model.WeightsFormatVersion,
		Coefficients: []float64{2, 0.5},
		Intercept:    1,
	}

	data, err := w.ToJSON()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))

	// Output: {"model_type":"LinearRegression","version":"1.0","coefficients":[2,0.5],"intercept":1,"state":{"fitted":false}}
}
