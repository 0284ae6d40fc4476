package main

import (
    "bytes"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "gopkg.in/yaml.v3"

    "wmsplan/internal/model"
)

// loadPlanInput reads tasks and workers from a .json file, or YAML for any
// other extension. Unknown keys are rejected in both formats.
func loadPlanInput(path string) (model.PlanRequest, error) {
    var req model.PlanRequest
    b, err := os.ReadFile(path)
    if err != nil {
        return req, fmt.Errorf("read input: %w", err)
    }
    if err := decodePlanInput(b, strings.ToLower(filepath.Ext(path)) == ".json", &req); err != nil {
        return req, fmt.Errorf("parse %s: %w", path, err)
    }
    return req, nil
}

func decodePlanInput(b []byte, isJSON bool, req *model.PlanRequest) error {
    if isJSON {
        dec := json.NewDecoder(bytes.NewReader(b))
        dec.DisallowUnknownFields()
        return dec.Decode(req)
    }
    dec := yaml.NewDecoder(bytes.NewReader(b))
    dec.KnownFields(true)
    return dec.Decode(req)
}
