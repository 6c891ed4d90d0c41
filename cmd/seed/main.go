// seed 生成演示数据：用户、关注、乐评、艺人关注
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/authz"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/auth"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
	"github.com/d60-Lab/tuneboxd/pkg/database"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logger.Fatal("authz init failed", zap.Error(err))
	}

	users := repository.NewUserRepository(db)
	directory := service.NewUserDirectory(users, cache.NewLRU[string, model.UserSummary](cache.Options{Namespace: "user", Size: cfg.Cache.Size, TTL: cfg.Cache.TTL}))
	notifier := service.NewNotificationService(repository.NewNotificationRepository(db), directory)
	authSvc := service.NewAuthService(users, repository.NewVerificationRepository(db), auth.NewManager(cfg.JWT), nil)
	relSvc := service.NewRelationshipService(repository.NewFollowRepository(db), repository.NewArtistFollowRepository(db), users, notifier, nil)
	reviewSvc := service.NewReviewService(repository.NewReviewRepository(db), repository.NewAlbumRepository(db), enforcer, notifier, nil)

	nUsers := envInt("USERS", 50)
	nFollows := envInt("FOLLOWS", 10)
	nReviews := envInt("REVIEWS", 3)
	nArtists := envInt("ARTISTS", 3)
	f := gofakeit.New(int64(envInt("SEED", 42)))
	ctx := context.Background()

	// 固定曲库，便于重复评价同一批专辑
	albums := make([]service.AlbumInput, 40)
	for i := range albums {
		albums[i] = service.AlbumInput{
			SpotifyID:   strings.ReplaceAll(f.UUID(), "-", "")[:22],
			Name:        strings.TrimSuffix(f.Sentence(3), "."),
			Artist:      f.Name(),
			ReleaseDate: f.Date().Format("2006-01-02"),
			ImageURL:    f.ImageURL(640, 640),
		}
	}

	actors := make([]model.Actor, 0, nUsers)
	for len(actors) < nUsers {
		name := strings.ToLower(f.Username())
		res, err := authSvc.Register(ctx, service.RegisterInput{
			Username: name,
			Email:    name + "@" + f.DomainName(),
			Password: "password123",
		})
		if errors.Is(err, service.ErrIdentityTaken) || errors.Is(err, service.ErrInvalidUsername) {
			continue
		}
		if err != nil {
			logger.Fatal("register", zap.String("username", name), zap.Error(err))
		}
		actors = append(actors, model.Actor{UserID: res.User.ID, Username: res.User.Username, Role: res.User.Role})
	}

	var follows, reviews, artists int
	for _, a := range actors {
		for k := 0; k < nFollows; k++ {
			target := actors[f.Number(0, len(actors)-1)]
			if _, err := relSvc.Follow(ctx, a.UserID, target.UserID); err == nil {
				follows++
			}
		}
		for k := 0; k < nReviews; k++ {
			_, err := reviewSvc.Create(ctx, a, service.CreateReviewInput{
				Album:   albums[f.Number(0, len(albums)-1)],
				Rating:  f.Number(1, 5),
				Title:   strings.TrimSuffix(f.Sentence(4), "."),
				Content: f.Paragraph(1, 3, 12, " "),
			})
			if err == nil {
				reviews++
			}
		}
		for k := 0; k < nArtists; k++ {
			al := albums[f.Number(0, len(albums)-1)]
			if _, err := relSvc.FollowArtist(ctx, a.UserID, service.ArtistInput{
				ArtistID:   "artist-" + strings.ToLower(strings.ReplaceAll(al.Artist, " ", "-")),
				ArtistName: al.Artist,
			}); err == nil {
				artists++
			}
		}
	}

	fmt.Printf("seeded users=%d follows=%d reviews=%d artist_follows=%d\n", len(actors), follows, reviews, artists)
}
