package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zlseqx/tikhub-checkin/tikhub"
)

// MCP 工具定义。STDIO 模式下把签到暴露成 MCP 工具，
// 供支持 MCP 的客户端直接调用。

type checkinArgs struct{}

type statisticsArgs struct{}

// StartSTDIO 以 STDIO transport 运行 MCP 服务器（阻塞）
func StartSTDIO(service *CheckinService) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tikhub-checkin",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkin",
		Description: "执行 TikHub 每日签到并返回结果",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args checkinArgs) (*mcp.CallToolResult, any, error) {
		return handleCheckinTool(ctx, service)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkin_statistics",
		Description: "查询 TikHub 签到统计（总计天数、本月天数、今日是否已签）",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args statisticsArgs) (*mcp.CallToolResult, any, error) {
		return handleStatisticsTool(service)
	})

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

func handleCheckinTool(ctx context.Context, service *CheckinService) (*mcp.CallToolResult, any, error) {
	outcome := service.Run(ctx)
	service.Notify(ctx, outcome)

	text := fmt.Sprintf("状态: %s\n信息: %s", statusLabel(outcome), outcome.Message)
	if outcome.Reward != "" {
		text += fmt.Sprintf("\n获得积分: %s", outcome.Reward)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: !outcome.OK(),
	}, nil, nil
}

func handleStatisticsTool(service *CheckinService) (*mcp.CallToolResult, any, error) {
	stats := service.Statistics()

	text := fmt.Sprintf("总计已签到: %d 天\n本月已签到: %d 天", stats.TotalDays, stats.MonthDays)
	if stats.IsFirstToday {
		text += "\n今日已完成签到"
	} else {
		text += "\n今日还未签到"
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func statusLabel(outcome *tikhub.Outcome) string {
	switch outcome.Kind {
	case tikhub.OutcomeSuccess:
		return "✅ 签到成功"
	case tikhub.OutcomeAlreadyDone:
		return "✓ 今日已签到"
	case tikhub.OutcomeSessionInvalid:
		return "❌ Cookie 已失效"
	case tikhub.OutcomeBlocked:
		return "❌ 被人机验证拦截"
	}
	return "❌ 签到失败"
}
