package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/database"
)

func main() {
	var (
		username = flag.String("username", "", "初始管理员用户名（建号时必填）")
		role     = flag.String("role", string(auth.RoleAdmin), "账号角色：admin 或 superadmin")
		wipe     = flag.Bool("wipe", false, "清空示例数据（blogs、tags、users）后退出")
		dbURL    = flag.String("database-url", "", "数据库连接串（可选，默认读 DATABASE_URL）")
	)
	flag.Parse()

	dbCfg := config.DatabaseConfig{URL: strings.TrimSpace(*dbURL)}
	if dbCfg.URL == "" {
		dbCfg.URL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dbCfg.URL == "" {
		log.Fatal("missing database url: pass --database-url or set DATABASE_URL")
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	if *wipe {
		wipeSampleData(db)
		return
	}

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("missing required flag: --username")
	}

	r := auth.Role(strings.TrimSpace(*role))
	if !r.AtLeast(auth.RoleAdmin) {
		log.Fatalf("role must be admin or superadmin, got %q", *role)
	}

	var existing database.User
	switch err := db.Where("username = ?", u).First(&existing).Error; {
	case err == nil:
		log.Fatalf("user %q already exists", u)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := database.User{
		Username: u,
		Password: &hashed,
		Role:     string(r),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("已创建初始账号：\n")
	fmt.Printf("  username: %s\n", u)
	fmt.Printf("  role:     %s\n", r)
	fmt.Printf("  password: %s\n", password)
}

// wipeSampleData 清空演示数据，相当于原项目的 clean 脚本。
func wipeSampleData(db *gorm.DB) {
	for _, stmt := range []string{
		"DELETE FROM blogs",
		"DELETE FROM tags",
		"DELETE FROM users",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("%s: %v", strings.ToLower(stmt), err)
		}
	}
	fmt.Println("示例数据已清空")
}

func generateRandomPassword(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length], nil
}
