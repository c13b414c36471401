package answer

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jayz-blip/askboard/board"
)

// RegisterMCP registers the query tools on an MCP server, so agent clients
// can ask the board the same questions the HTTP API answers.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerAsk(srv)
	s.registerListClients(srv)
	s.registerPosts(srv)
	s.registerResponsible(srv)
}

func (s *Service) registerAsk(srv *mcp.Server) {
	type req struct {
		SessionID string `json:"session_id,omitempty" jsonschema:"session id to continue a conversation, empty starts one"`
		Message   string `json:"message" jsonschema:"the question, in Korean"`
	}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "ask_board",
		Description: "Answer a natural-language question using internal board posts as evidence",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, p req) (*mcp.CallToolResult, *Reply, error) {
		reply, err := s.Ask(ctx, p.SessionID, p.Message)
		if err != nil {
			return nil, nil, err
		}
		return nil, reply, nil
	})
}

func (s *Service) registerListClients(srv *mcp.Server) {
	type req struct{}
	type resp struct {
		Clients []string `json:"clients"`
	}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_clients",
		Description: "List the known client boards",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ req) (*mcp.CallToolResult, *resp, error) {
		names, err := s.Clients(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, &resp{Clients: names}, nil
	})
}

func (s *Service) registerPosts(srv *mcp.Server) {
	type req struct {
		Client     string `json:"client,omitempty" jsonschema:"client name, empty for the default board"`
		Limit      int    `json:"limit,omitempty" jsonschema:"max posts to return"`
		DateFilter string `json:"date_filter,omitempty" jsonschema:"today, yesterday, this_week, last_week, this_month, last_month or recent"`
	}
	type resp struct {
		Posts []*board.Post `json:"posts"`
	}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "board_posts",
		Description: "Fetch board posts for a client, optionally filtered by a date window",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, p req) (*mcp.CallToolResult, *resp, error) {
		posts, err := s.src.Posts(ctx, board.Query{
			Client: p.Client,
			Limit:  p.Limit,
			Bucket: board.Bucket(p.DateFilter),
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, &resp{Posts: posts}, nil
	})
}

func (s *Service) registerResponsible(srv *mcp.Server) {
	type req struct {
		Client string `json:"client" jsonschema:"client name"`
	}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "responsible_person",
		Description: "Find the most recently active person for a client board",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, p req) (*mcp.CallToolResult, *board.ResponsiblePerson, error) {
		rp, err := s.src.Responsible(ctx, p.Client)
		if err != nil {
			return nil, nil, err
		}
		if rp == nil {
			return nil, nil, fmt.Errorf("no recent activity for %q", p.Client)
		}
		return nil, rp, nil
	})
}
