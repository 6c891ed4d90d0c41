package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
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

	users := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notifyRepo := repository.NewNotificationRepository(db)
	directory := service.NewUserDirectory(users, cache.NewLRU[string, model.UserSummary](cache.Options{Namespace: "user", Size: 100000, TTL: time.Minute}))
	notifier := service.NewNotificationService(notifyRepo, directory)
	relSvc := service.NewRelationshipService(followRepo, repository.NewArtistFollowRepository(db), users, notifier, nil)

	ctx := context.Background()
	N := envInt("N", 10000)
	CONC := envInt("CONC", 1)
	PAGE := envInt("PAGE", 50)
	DOUBLE := envInt("DOUBLE", 200)

	// u0 为被关注的大V，其余用户都关注 u0
	celeb := model.User{ID: uuid.New().String(), Username: "celeb" + strconv.FormatInt(time.Now().Unix(), 36), PasswordHash: "x", Role: model.RoleUser}
	celeb.Email = celeb.Username + "@bench.local"
	must(0, db.Create(&celeb).Error)
	fans := make([]model.User, N)
	for i := range fans {
		id := uuid.New().String()
		fans[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@bench.local", PasswordHash: "x", Role: model.RoleUser}
	}
	must(0, db.CreateInBatches(&fans, 1000).Error)

	// follow 写入：边 + 通知
	workers := CONC
	if workers > N {
		workers = N
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	lat := make(chan time.Duration, N)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				_, _ = relSvc.Follow(ctx, fans[i].ID, celeb.ID)
				lat <- time.Since(st)
			}
		}()
	}
	wg.Wait()
	close(lat)
	followDur := time.Since(t0)
	recs := make([]time.Duration, 0, N)
	for d := range lat {
		recs = append(recs, d)
	}

	// 重复提交：同一对用户并发 follow 两次
	if DOUBLE > N {
		DOUBLE = N
	}
	conflicts := 0
	var mu sync.Mutex
	for i := 0; i < DOUBLE; i++ {
		var pair sync.WaitGroup
		for k := 0; k < 2; k++ {
			pair.Add(1)
			go func() {
				defer pair.Done()
				_, err := relSvc.Follow(ctx, celeb.ID, fans[i].ID)
				if errors.Is(err, service.ErrAlreadyFollowing) {
					mu.Lock()
					conflicts++
					mu.Unlock()
				}
			}()
		}
		pair.Wait()
	}
	var edges, notes int64
	db.Model(&model.Follow{}).Where("follower_id = ?", celeb.ID).Count(&edges)
	db.Model(&model.Notification{}).Where("from_user_id = ?", celeb.ID).Count(&notes)

	q0 := time.Now()
	followers, _ := relSvc.ListFollowers(ctx, celeb.ID, "", PAGE, 0)
	followersDur := time.Since(q0)
	q1 := time.Now()
	_, _ = relSvc.ListFollowing(ctx, fans[0].ID, "", PAGE, 0)
	followingDur := time.Since(q1)
	q2 := time.Now()
	unread, _ := notifier.UnreadCount(ctx, celeb.ID)
	unreadDur := time.Since(q2)

	fmt.Printf("N=%d CONC=%d PAGE=%d DOUBLE=%d\n", N, CONC, PAGE, DOUBLE)
	fmt.Printf("Follow (edge+notification) total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/time.Duration(N), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
	fmt.Printf("Double submit: pairs=%d edges=%d notifications=%d conflicts=%d\n", DOUBLE, edges, notes, conflicts)
	if followers != nil {
		fmt.Printf("Query followers(%d of %d) latency: %v\n", len(followers.Items), followers.Total, followersDur)
	}
	fmt.Printf("Query following(%d) latency: %v\n", PAGE, followingDur)
	fmt.Printf("Unread count(%d) latency: %v\n", unread, unreadDur)
}
