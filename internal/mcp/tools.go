package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "register_user",
			Description: "Register an owner or a tenant",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "User ID (optional, generated if omitted)",
					},
					"name": map[string]any{
						"type":        "string",
						"description": "Display name",
					},
					"email": map[string]any{
						"type":        "string",
						"description": "Unique email address",
					},
					"role": map[string]any{
						"type":        "string",
						"description": "OWNER lists spaces, TENANT signs contracts",
						"enum":        []string{"OWNER", "TENANT"},
					},
					"company_name": map[string]any{
						"type":        "string",
						"description": "Company name",
					},
				},
				"required": []string{"name", "email", "role"},
			},
		},
		{
			Name:        "create_building",
			Description: "Register a building that groups spaces",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Building name",
					},
					"address": map[string]any{
						"type":        "string",
						"description": "Street address",
					},
					"owner_id": map[string]any{
						"type":        "string",
						"description": "Owning user (role OWNER)",
					},
				},
				"required": []string{"name", "owner_id"},
			},
		},
		{
			Name:        "create_space",
			Description: "List a commercial space, optionally with its own parking facility",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Space name",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Free-form description",
					},
					"area": map[string]any{
						"type":        "number",
						"description": "Area in square metres (> 0)",
					},
					"price_per_month": map[string]any{
						"type":        "number",
						"description": "Monthly asking price (> 0)",
					},
					"address": map[string]any{
						"type":        "string",
						"description": "Street address",
					},
					"latitude": map[string]any{
						"type":        "number",
						"description": "Latitude in degrees",
					},
					"longitude": map[string]any{
						"type":        "number",
						"description": "Longitude in degrees",
					},
					"space_type": map[string]any{
						"type":        "string",
						"description": "Commercial use",
						"enum":        []string{"OFFICE", "RETAIL", "WAREHOUSE", "RESTAURANT", "INDUSTRIAL", "MEDICAL", "EDUCATIONAL", "RECREATIONAL"},
					},
					"owner_id": map[string]any{
						"type":        "string",
						"description": "Owning user (role OWNER)",
					},
					"building_id": map[string]any{
						"type":        "string",
						"description": "Building the space belongs to",
					},
					"parking": parkingSchema,
				},
				"required": []string{"name", "area", "price_per_month", "space_type", "owner_id"},
			},
		},
		{
			Name:        "get_space",
			Description: "Get a space with its availability and parking counters",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Space ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "building_occupancy",
			Description: "Get the occupancy rate of a building",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"building_id": map[string]any{
						"type":        "string",
						"description": "Building ID",
					},
				},
				"required": []string{"building_id"},
			},
		},
		{
			Name:        "get_parking",
			Description: "Get the reservation counters and quality score of a parking facility",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"facility_id": map[string]any{
						"type":        "string",
						"description": "Parking facility ID",
					},
				},
				"required": []string{"facility_id"},
			},
		},
		{
			Name:        "reserve_parking",
			Description: "Reserve spots on a parking facility",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"facility_id": map[string]any{
						"type":        "string",
						"description": "Parking facility ID",
					},
					"count": map[string]any{
						"type":        "integer",
						"description": "Number of spots (> 0)",
					},
				},
				"required": []string{"facility_id", "count"},
			},
		},
		{
			Name:        "release_parking",
			Description: "Release manually reserved spots on a parking facility; spots held by active contracts stay reserved",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"facility_id": map[string]any{
						"type":        "string",
						"description": "Parking facility ID",
					},
					"count": map[string]any{
						"type":        "integer",
						"description": "Number of spots (> 0)",
					},
				},
				"required": []string{"facility_id", "count"},
			},
		},
		{
			Name:        "create_contract",
			Description: "Sign a rental contract. An ACTIVE contract occupies the space; a PENDING one does not until activated",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"space_id": map[string]any{
						"type":        "string",
						"description": "Space to rent",
					},
					"tenant_id": map[string]any{
						"type":        "string",
						"description": "Tenant (role TENANT)",
					},
					"start_date": map[string]any{
						"type":        "string",
						"description": "First day, YYYY-MM-DD",
					},
					"end_date": map[string]any{
						"type":        "string",
						"description": "Last day, YYYY-MM-DD",
					},
					"monthly_rent": map[string]any{
						"type":        "number",
						"description": "Monthly rent (> 0)",
					},
					"security_deposit": map[string]any{
						"type":        "number",
						"description": "Security deposit (>= 0)",
					},
					"payment_method": map[string]any{
						"type":        "string",
						"description": "Payment method",
						"enum":        []string{"CASH", "BANK_TRANSFER", "CARD", "CHECK", "ONLINE"},
					},
					"notes": map[string]any{
						"type":        "string",
						"description": "Notes",
					},
					"signature": map[string]any{
						"type":        "string",
						"description": "Signature",
					},
					"auto_renewal": map[string]any{
						"type":        "boolean",
						"description": "Renew automatically",
					},
					"early_termination_allowed": map[string]any{
						"type":        "boolean",
						"description": "Whether early termination carries a fee",
					},
					"early_termination_fee": map[string]any{
						"type":        "number",
						"description": "Fee owed on early termination",
					},
					"late_payment_fee": map[string]any{
						"type":        "number",
						"description": "Fee owed on late payment",
					},
					"parking_spots": map[string]any{
						"type":        "integer",
						"description": "Spots reserved on the space's facility while ACTIVE",
					},
					"status": map[string]any{
						"type":        "string",
						"description": "Initial status (server default when omitted)",
						"enum":        []string{"ACTIVE", "PENDING"},
					},
				},
				"required": []string{"space_id", "tenant_id", "start_date", "end_date", "monthly_rent"},
			},
		},
		{
			Name:        "get_contract",
			Description: "Get a contract with its derived values",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Contract ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "list_contracts",
			Description: "List contracts by space, tenant, owner or status, soonest ending first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"space_id": map[string]any{
						"type":        "string",
						"description": "Space ID to filter by",
					},
					"tenant_id": map[string]any{
						"type":        "string",
						"description": "Tenant ID to filter by",
					},
					"owner_id": map[string]any{
						"type":        "string",
						"description": "Owner ID; keeps contracts on spaces this owner lists",
					},
					"status": map[string]any{
						"type":        "string",
						"description": "Status to filter by",
						"enum":        []string{"PENDING", "ACTIVE", "EXPIRED", "TERMINATED", "CANCELLED", "RENEWED"},
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of contracts",
					},
				},
			},
		},
		{
			Name:        "activate_contract",
			Description: "Activate a PENDING contract and occupy its space",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Contract ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "terminate_contract",
			Description: "Terminate a PENDING or ACTIVE contract today and release its space",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Contract ID",
					},
					"reason": map[string]any{
						"type":        "string",
						"description": "Termination reason",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "renew_contract",
			Description: "Replace an ACTIVE or EXPIRED contract with a new ACTIVE one",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Contract ID",
					},
					"new_end_date": map[string]any{
						"type":        "string",
						"description": "Last day of the renewal, YYYY-MM-DD",
					},
					"new_start_date": map[string]any{
						"type":        "string",
						"description": "First day of the renewal, YYYY-MM-DD (default today)",
					},
					"monthly_rent": map[string]any{
						"type":        "number",
						"description": "New monthly rent",
					},
					"security_deposit": map[string]any{
						"type":        "number",
						"description": "New security deposit",
					},
					"payment_method": map[string]any{
						"type":        "string",
						"description": "New payment method",
						"enum":        []string{"CASH", "BANK_TRANSFER", "CARD", "CHECK", "ONLINE"},
					},
					"notes": map[string]any{
						"type":        "string",
						"description": "New notes",
					},
					"auto_renewal": map[string]any{
						"type":        "boolean",
						"description": "New auto-renewal flag",
					},
				},
				"required": []string{"id", "new_end_date"},
			},
		},
		{
			Name:        "expire_contract",
			Description: "Expire an ACTIVE contract whose end date has passed",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Contract ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "cancel_contract",
			Description: "Cancel a contract in any state except CANCELLED",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Contract ID",
					},
					"reason": map[string]any{
						"type":        "string",
						"description": "Cancellation reason",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "expire_overdue",
			Description: "Expire every ACTIVE contract whose end date has passed",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_recent_activity",
			Description: "Get recent lifecycle activity, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"space_id": map[string]any{
						"type":        "string",
						"description": "Space ID to filter by",
					},
					"contract_id": map[string]any{
						"type":        "string",
						"description": "Contract ID to filter by",
					},
					"type": map[string]any{
						"type":        "string",
						"description": "Activity type to filter by",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of activity entries",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Entries to skip",
					},
				},
			},
		},
	}
}

var parkingSchema = map[string]any{
	"type":        "object",
	"description": "Parking facility attached to this space",
	"properties": map[string]any{
		"number_of_spots":         map[string]any{"type": "integer", "description": "Total spots (> 0)"},
		"price_per_spot":          map[string]any{"type": "number", "description": "Monthly price per spot"},
		"covered":                 map[string]any{"type": "boolean"},
		"parking_type":            map[string]any{"type": "string", "enum": []string{"SURFACE", "UNDERGROUND", "MULTI_LEVEL", "GARAGE", "STREET"}},
		"disabled_access_spots":   map[string]any{"type": "integer"},
		"electric_charging_spots": map[string]any{"type": "integer"},
		"security_cameras":        map[string]any{"type": "boolean"},
		"security_guard":          map[string]any{"type": "boolean"},
		"access_card_required":    map[string]any{"type": "boolean"},
		"height_restriction":      map[string]any{"type": "number", "description": "Maximum vehicle height in metres"},
		"operating_hours":         map[string]any{"type": "string"},
	},
	"required": []string{"number_of_spots", "parking_type"},
}

// registerTools exposes every catalog entry through handler. Domain errors
// become tool results flagged IsError so the model can read the code and hint.
func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				return toolResult(MapError(err), true)
			}
			return toolResult(result, false)
		})
	}
}

func toolResult(payload any, isError bool) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: isError,
	}, nil
}
