package discord

import (
	"context"
	"log"
	"strings"

	"market-events-bot/internal/application/chart"
	"market-events-bot/internal/application/query"
	"market-events-bot/internal/domain/econcal"
	"market-events-bot/internal/infrastructure/metrics"
)

// Message 為進入路由器的最小訊息視圖，與 gateway 實作解耦。
type Message struct {
	ChannelID string
	GuildID   string
	AuthorID  string
	Content   string
	FromBot   bool
}

// Embed 為結構化回覆內容。
type Embed struct {
	Title       string
	Description string
	ImageURL    string
	Color       int
	Fields      []EmbedField
}

// EmbedField 為 Embed 中的一組名稱/內容。
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Responder 將回覆送回觸發指令的頻道。
type Responder interface {
	SendText(ctx context.Context, channelID, text string) error
	SendEmbed(ctx context.Context, channelID string, embed Embed) error
}

// AdminChecker 判斷使用者是否具管理員權限（setchannel/removechannel 閘門）。
type AdminChecker interface {
	IsAdministrator(ctx context.Context, guildID, channelID, userID string) (bool, error)
}

// SubscriptionStore 管理通知訂閱頻道集合。
type SubscriptionStore interface {
	AddDestination(id string)
	RemoveDestination(id string)
}

// EventLister 提供目前事件快取的唯讀視圖。
type EventLister interface {
	Events() []econcal.Event
}

const colorGreen = 0x00ff00

// Router 解析 `;` 前綴指令並分派到對應處理函式。
type Router struct {
	prefix        string
	responder     Responder
	admin         AdminChecker
	subscriptions SubscriptionStore
	cache         EventLister
	charts        *chart.Service
	queries       *query.Service
}

// NewRouter 建立指令路由器。
func NewRouter(prefix string, responder Responder, admin AdminChecker, subscriptions SubscriptionStore, cache EventLister, charts *chart.Service, queries *query.Service) *Router {
	if prefix == "" {
		prefix = ";"
	}
	return &Router{
		prefix:        prefix,
		responder:     responder,
		admin:         admin,
		subscriptions: subscriptions,
		cache:         cache,
		charts:        charts,
		queries:       queries,
	}
}

// HandleMessage 處理一則進站訊息。非指令或機器人自己的訊息直接忽略。
// 任何指令失敗都化為頻道內的純文字回覆，不向外傳播。
func (r *Router) HandleMessage(ctx context.Context, msg Message) {
	if msg.FromBot || !strings.HasPrefix(msg.Content, r.prefix) {
		return
	}
	parts := strings.Fields(msg.Content[len(r.prefix):])
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "setchannel":
		r.handleSetChannel(ctx, msg)
	case "removechannel":
		r.handleRemoveChannel(ctx, msg)
	case "events":
		r.handleEvents(ctx, msg)
	case "getdata":
		r.handleGetData(ctx, msg, args)
	case "search":
		r.handleSearch(ctx, msg, args)
	case "correlation":
		r.handleCorrelation(ctx, msg, args)
	default:
		command = "ticker"
		r.handleTicker(ctx, msg, parts)
	}
	metrics.CommandsHandled.WithLabelValues(command).Inc()
}

func (r *Router) reply(ctx context.Context, msg Message, text string) {
	if err := r.responder.SendText(ctx, msg.ChannelID, text); err != nil {
		log.Printf("[Discord] reply to %s failed: %v", msg.ChannelID, err)
	}
}

func (r *Router) replyEmbed(ctx context.Context, msg Message, embed Embed) {
	if err := r.responder.SendEmbed(ctx, msg.ChannelID, embed); err != nil {
		log.Printf("[Discord] reply to %s failed: %v", msg.ChannelID, err)
	}
}

func (r *Router) replyError(ctx context.Context, msg Message, err error) {
	r.reply(ctx, msg, "An error occurred: "+err.Error())
}

// requireAdmin 通過回傳 true；未通過時已回覆拒絕訊息。
func (r *Router) requireAdmin(ctx context.Context, msg Message) bool {
	ok, err := r.admin.IsAdministrator(ctx, msg.GuildID, msg.ChannelID, msg.AuthorID)
	if err != nil {
		log.Printf("[Discord] permission check failed: %v", err)
		r.reply(ctx, msg, "Could not verify permissions, try again later.")
		return false
	}
	if !ok {
		r.reply(ctx, msg, "This command requires administrator permissions.")
		return false
	}
	return true
}
