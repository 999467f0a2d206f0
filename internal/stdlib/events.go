// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package stdlib

import "github.com/playbymail/lslopt/internal/ast"

// Event describes one LSL event handler signature.
type Event struct {
	Name       string
	ParamTypes []ast.Type
	ParamNames []string
}

// Events is the representative subset of Second Life's event handlers
// exercised by the compiler's test corpus and examples.
var Events = map[string]Event{
	"state_entry":  {Name: "state_entry"},
	"state_exit":   {Name: "state_exit"},
	"touch_start":  {Name: "touch_start", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"total_number"}},
	"touch":        {Name: "touch", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"total_number"}},
	"touch_end":    {Name: "touch_end", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"total_number"}},
	"timer":        {Name: "timer"},
	"listen": {Name: "listen",
		ParamTypes: []ast.Type{ast.TypeInteger, ast.TypeString, ast.TypeKey, ast.TypeString},
		ParamNames: []string{"channel", "name", "id", "message"}},
	"on_rez": {Name: "on_rez", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"start_param"}},
	"changed": {Name: "changed", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"change"}},
	"collision_start": {Name: "collision_start", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"num_detected"}},
	"collision":       {Name: "collision", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"num_detected"}},
	"collision_end":   {Name: "collision_end", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"num_detected"}},
	"sensor":          {Name: "sensor", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"num_detected"}},
	"no_sensor":       {Name: "no_sensor"},
	"moving_start":    {Name: "moving_start"},
	"moving_end":      {Name: "moving_end"},
	"money": {Name: "money",
		ParamTypes: []ast.Type{ast.TypeKey, ast.TypeInteger}, ParamNames: []string{"id", "amount"}},
	"email": {Name: "email",
		ParamTypes: []ast.Type{ast.TypeString, ast.TypeString, ast.TypeString, ast.TypeString, ast.TypeInteger},
		ParamNames: []string{"time", "address", "subject", "message", "num_left"}},
	"run_time_permissions": {Name: "run_time_permissions", ParamTypes: []ast.Type{ast.TypeInteger}, ParamNames: []string{"perm"}},
	"link_message": {Name: "link_message",
		ParamTypes: []ast.Type{ast.TypeInteger, ast.TypeInteger, ast.TypeString, ast.TypeKey},
		ParamNames: []string{"sender_num", "num", "str", "id"}},
	"http_response": {Name: "http_response",
		ParamTypes: []ast.Type{ast.TypeKey, ast.TypeInteger, ast.TypeList, ast.TypeString},
		ParamNames: []string{"request_id", "status", "metadata", "body"}},
	"http_request": {Name: "http_request",
		ParamTypes: []ast.Type{ast.TypeKey, ast.TypeString, ast.TypeString},
		ParamNames: []string{"request_id", "method", "body"}},
	"state_change": {Name: "state_change"},
}
