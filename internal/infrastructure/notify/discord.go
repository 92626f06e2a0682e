package notify

import (
	"context"
	"fmt"

	"market-events-bot/internal/domain/econcal"
	ifdiscord "market-events-bot/internal/interface/discord"

	"github.com/bwmarrin/discordgo"
)

const alertColor = 0x00ff00

// MessageHandler 由指令路由器實作，收到訊息事件後轉交處理。
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg ifdiscord.Message)
}

// Gateway 封裝 discordgo session，實作回覆、通知與權限檢查。
type Gateway struct {
	session *discordgo.Session
}

// NewGateway 建立 Discord gateway 連線（尚未開啟）。
func NewGateway(token string) (*Gateway, error) {
	if token == "" {
		return nil, fmt.Errorf("discord: token missing")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return &Gateway{session: session}, nil
}

// BindRouter 註冊訊息事件處理器，將進站訊息轉為路由器的訊息視圖。
func (g *Gateway) BindRouter(handler MessageHandler) {
	g.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		handler.HandleMessage(context.Background(), ifdiscord.Message{
			ChannelID: m.ChannelID,
			GuildID:   m.GuildID,
			AuthorID:  m.Author.ID,
			Content:   m.Content,
			FromBot:   m.Author.Bot || (s.State.User != nil && m.Author.ID == s.State.User.ID),
		})
	})
}

// Open 開啟 gateway 連線。
func (g *Gateway) Open() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}
	return nil
}

// Close 關閉 gateway 連線。
func (g *Gateway) Close() error {
	return g.session.Close()
}

// SendText 送出純文字訊息。
func (g *Gateway) SendText(ctx context.Context, channelID, text string) error {
	_, err := g.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: send to %s: %w", channelID, err)
	}
	return nil
}

// SendEmbed 送出結構化訊息。
func (g *Gateway) SendEmbed(ctx context.Context, channelID string, embed ifdiscord.Embed) error {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	if embed.ImageURL != "" {
		out.Image = &discordgo.MessageEmbedImage{URL: embed.ImageURL}
	}
	for _, f := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	_, err := g.session.ChannelMessageSendEmbed(channelID, out, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: send embed to %s: %w", channelID, err)
	}
	return nil
}

// SendEventAlert 將公布提醒送到單一訂閱頻道。
func (g *Gateway) SendEventAlert(ctx context.Context, destination string, ev econcal.Event) error {
	embed := &discordgo.MessageEmbed{
		Title:       "🔔 Upcoming Economic Release",
		Description: "**" + ev.Title + "**",
		Color:       alertColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Time", Value: ev.ReleaseTime.UTC().Format("15:04 UTC"), Inline: true},
			{Name: "Previous Value", Value: ev.Previous, Inline: true},
			{Name: "Impact", Value: string(ev.Impact), Inline: true},
		},
	}
	_, err := g.session.ChannelMessageSendEmbed(destination, embed, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: alert to %s: %w", destination, err)
	}
	return nil
}

// IsAdministrator 檢查使用者在該頻道是否具管理員權限。私訊一律否。
func (g *Gateway) IsAdministrator(_ context.Context, guildID, channelID, userID string) (bool, error) {
	if guildID == "" {
		return false, nil
	}
	perms, err := g.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, fmt.Errorf("discord: permission lookup: %w", err)
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}
