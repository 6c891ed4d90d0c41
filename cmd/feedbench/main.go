package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	followRepo := repository.NewFollowRepository(db)
	feed := service.NewFeedService(repository.NewActivityRepository(db))

	// params
	AUTHORS := envInt("AUTHORS", 500) // 被关注的作者数
	REVIEWS := envInt("REVIEWS", 20)  // 每位作者的乐评数
	ARTISTS := envInt("ARTISTS", 5)   // 每位作者关注的艺人数
	PAGE := envInt("PAGE", 20)
	ITER := envInt("ITER", 200)
	DEEP := envInt("DEEP", 10) // 深翻页的页号

	ctx := context.Background()
	tag := strconv.FormatInt(time.Now().UnixNano(), 36)
	viewer := model.User{ID: uuid.New().String(), Username: "v" + tag, Email: "v" + tag + "@bench.local", PasswordHash: "x", Role: model.RoleUser}
	must(0, db.Create(&viewer).Error)

	authors := make([]model.User, AUTHORS)
	for i := range authors {
		id := uuid.New().String()
		authors[i] = model.User{ID: id, Username: "a" + id[:8], Email: id[:8] + "@bench.local", PasswordHash: "x", Role: model.RoleUser}
	}
	must(0, db.CreateInBatches(&authors, 500).Error)

	albums := make([]model.Album, REVIEWS)
	for i := range albums {
		albums[i] = model.Album{ID: uuid.New().String(), SpotifyID: tag + strconv.Itoa(i), Name: "Album " + strconv.Itoa(i), Artist: "Artist " + strconv.Itoa(i%ARTISTS)}
	}
	must(0, db.CreateInBatches(&albums, 500).Error)

	// 时间戳错开，保证排序稳定
	base := time.Now().UTC().Add(-time.Duration(AUTHORS*REVIEWS) * time.Second)
	reviews := make([]model.Review, 0, AUTHORS*REVIEWS)
	artistFollows := make([]model.ArtistFollow, 0, AUTHORS*ARTISTS)
	for i, a := range authors {
		for j := 0; j < REVIEWS; j++ {
			at := base.Add(time.Duration(i*REVIEWS+j) * time.Second)
			reviews = append(reviews, model.Review{ID: uuid.New().String(), UserID: a.ID, AlbumID: albums[j].ID, Rating: 1 + j%5, CreatedAt: at, UpdatedAt: at})
		}
		for j := 0; j < ARTISTS; j++ {
			artistFollows = append(artistFollows, model.ArtistFollow{ID: uuid.New().String(), UserID: a.ID, ArtistID: tag + "-artist-" + strconv.Itoa(j), ArtistName: "Artist " + strconv.Itoa(j), CreatedAt: base.Add(time.Duration(i*ARTISTS+j) * time.Second)})
		}
	}
	must(0, db.CreateInBatches(&reviews, 1000).Error)
	must(0, db.CreateInBatches(&artistFollows, 1000).Error)

	t0 := time.Now()
	for _, a := range authors {
		must(followRepo.Create(ctx, viewer.ID, a.ID))
	}
	followDur := time.Since(t0)

	measure := func(offset int) []time.Duration {
		out := make([]time.Duration, 0, ITER)
		for i := 0; i < ITER; i++ {
			st := time.Now()
			page := must(feed.Activity(ctx, viewer.ID, PAGE, offset))
			out = append(out, time.Since(st))
			if i == 0 && len(page.Activities) == 0 {
				panic("empty feed")
			}
		}
		return out
	}
	first := measure(0)
	deep := measure(DEEP * PAGE)

	fmt.Printf("AUTHORS=%d REVIEWS=%d ARTISTS=%d PAGE=%d ITER=%d\n", AUTHORS, REVIEWS, ARTISTS, PAGE, ITER)
	fmt.Printf("Seed follows(%d) total: %v\n", AUTHORS, followDur)
	fmt.Printf("Feed first page p50: %v, p95: %v, p99: %v\n", pct(first, 0.50), pct(first, 0.95), pct(first, 0.99))
	fmt.Printf("Feed page %d p50: %v, p95: %v, p99: %v\n", DEEP, pct(deep, 0.50), pct(deep, 0.95), pct(deep, 0.99))
}
