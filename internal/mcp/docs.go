package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `spacelease manages commercial space rentals: Spaces, their Parking facilities, and the Contracts that occupy them.

Core concepts:
- Space: a rentable unit with an availability flag. At most one ACTIVE contract occupies a space at a time.
- Parking facility: optional, attached to one space, with total/reserved/available spot counters.
- Contract: PENDING -> ACTIVE -> EXPIRED | TERMINATED | RENEWED, or CANCELLED from any non-cancelled state.
- Every lifecycle call is atomic: contract status, space availability, parking counters and the activity log change together or not at all.

Default workflow:
1) register_user for the OWNER and the TENANT.
2) create_space (optionally with parking), then get_space to confirm it is available.
3) create_contract. A CONFLICT error means the space is already occupied.
4) Manage the lifecycle with activate_contract / terminate_contract / renew_contract / expire_contract / cancel_contract.
5) get_recent_activity to audit what happened.

Docs:
- spacelease://docs/index
- spacelease://docs/lifecycle
- spacelease://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "spacelease://docs/index",
		Name:        "docs_index",
		Title:       "spacelease docs index",
		Description: "Entry point: tools by area and what to read next.",
		Content: `# spacelease: Agent Docs Index

## Tools by area

- Users: ` + "`register_user`" + `
- Inventory: ` + "`create_building`" + `, ` + "`create_space`" + `, ` + "`get_space`" + `, ` + "`building_occupancy`" + `
- Parking: ` + "`get_parking`" + `, ` + "`reserve_parking`" + `, ` + "`release_parking`" + `
- Contracts: ` + "`create_contract`" + `, ` + "`get_contract`" + `, ` + "`list_contracts`" + `
- Lifecycle: ` + "`activate_contract`" + `, ` + "`terminate_contract`" + `, ` + "`renew_contract`" + `, ` + "`expire_contract`" + `, ` + "`cancel_contract`" + `, ` + "`expire_overdue`" + `
- Audit: ` + "`get_recent_activity`" + `

## Docs

- ` + "`spacelease://docs/lifecycle`" + ` - contract states and what each transition does to the space and its parking.
- ` + "`spacelease://docs/errors`" + ` - error codes and how to recover.

Dates are ` + "`YYYY-MM-DD`" + `. Money is a plain number in the owner's currency.
`,
	},
	{
		URI:         "spacelease://docs/lifecycle",
		Name:        "docs_lifecycle",
		Title:       "Contract lifecycle",
		Description: "Contract states, allowed transitions, and their effect on space availability and parking.",
		Content: `# Contract lifecycle

| From | Call | To | Space | Parking |
|------|------|----|-------|---------|
| (new) | ` + "`create_contract`" + ` status ACTIVE | ACTIVE | occupied | spots reserved |
| (new) | ` + "`create_contract`" + ` status PENDING | PENDING | unchanged | unchanged |
| PENDING | ` + "`activate_contract`" + ` | ACTIVE | occupied | spots reserved |
| PENDING, ACTIVE | ` + "`terminate_contract`" + ` | TERMINATED | released if it was ACTIVE | released if it was ACTIVE |
| ACTIVE, past end date | ` + "`expire_contract`" + ` | EXPIRED | released | released |
| ACTIVE, EXPIRED | ` + "`renew_contract`" + ` | RENEWED + new ACTIVE | occupied by the new contract | carried over or re-reserved |
| any but CANCELLED | ` + "`cancel_contract`" + ` | CANCELLED | released if it was ACTIVE | released if it was ACTIVE |

## Rules

- A space has at most one ACTIVE contract. ` + "`create_contract`" + ` on an occupied space fails with CONFLICT for PENDING and ACTIVE alike, and changes nothing.
- ` + "`release_parking`" + ` cannot free spots that ACTIVE contracts hold. Those are released when the contract ends.
- The end date must be after the start date and not in the past.
- Terminating sets the actual end date to today.
- Renewing gives the new contract a fresh contract number. The old one keeps its history with status RENEWED.
- ` + "`expire_overdue`" + ` expires every ACTIVE contract whose end date has passed and reports each one.
`,
	},
	{
		URI:         "spacelease://docs/errors",
		Name:        "docs_errors",
		Title:       "Error codes",
		Description: "Error codes returned by tools and how to recover from each.",
		Content: `# Error codes

Failed tool calls return ` + "`isError: true`" + ` and a JSON body with ` + "`code`" + `, ` + "`message`" + ` and ` + "`recovery_hint`" + `.

- ` + "`BAD_REQUEST`" + `: invalid arguments (dates, amounts, enum values). Fix and retry.
- ` + "`NOT_FOUND`" + `: the referenced user, space, facility or contract does not exist.
- ` + "`CONFLICT`" + `: the current state forbids the call, for example the space is occupied or the contract is not ACTIVE. Reload with ` + "`get_contract`" + ` or ` + "`get_space`" + `.
- ` + "`DUPLICATE_RESOURCE`" + `: a unique value is taken (email, contract number, facility already attached).
- ` + "`BUSINESS_ERROR`" + `: the operation failed part way and was rolled back. Nothing changed.
- ` + "`INTERNAL_ERROR`" + `: unexpected failure.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
