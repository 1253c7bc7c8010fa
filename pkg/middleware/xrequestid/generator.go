package xrequestid

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sony/sonyflake/v2"
)

// EnvMachineID 指定 sonyflake 机器 ID 的环境变量（0-65535）。
const EnvMachineID = "XREQUESTID_MACHINE_ID"

var (
	// ErrInvalidMachineID 机器 ID 配置无效。
	ErrInvalidMachineID = errors.New("xrequestid: invalid machine id")

	// ErrGenerate 生成请求 ID 失败。
	ErrGenerate = errors.New("xrequestid: generate request id")
)

var osHostname = os.Hostname

// Generator 生成请求 ID。实现必须并发安全。
type Generator interface {
	NewID() (string, error)
}

// GeneratorFunc 函数适配器。
type GeneratorFunc func() (string, error)

// NewID 实现 Generator。
func (f GeneratorFunc) NewID() (string, error) { return f() }

// UUID 返回随机 UUID v4 生成器。
func UUID() Generator {
	return GeneratorFunc(func() (string, error) {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrGenerate, err)
		}
		return id.String(), nil
	})
}

// SonyflakeGenerator 基于 sonyflake 的有序 ID 生成器。
type SonyflakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewSonyflakeGenerator 创建 sonyflake 生成器。
//
// machineID 为 nil 时按以下顺序获取机器 ID：
//
//  1. XREQUESTID_MACHINE_ID 环境变量
//  2. os.Hostname() 的 FNV 哈希低 16 位
//  3. 私有 IPv4 地址的低 16 位（sonyflake 默认方式）
//
// 哈希方式存在碰撞可能，多实例部署建议显式分配。
func NewSonyflakeGenerator(machineID func() (int, error)) (*SonyflakeGenerator, error) {
	if machineID == nil {
		id, ok, err := defaultMachineID()
		if err != nil {
			return nil, err
		}
		if ok {
			machineID = func() (int, error) { return id, nil }
		}
	}
	sf, err := sonyflake.New(sonyflake.Settings{MachineID: machineID})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMachineID, err)
	}
	return &SonyflakeGenerator{sf: sf}, nil
}

// NewID 实现 Generator，返回 36 进制字符串。
func (g *SonyflakeGenerator) NewID() (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return strconv.FormatInt(id, 36), nil
}

// defaultMachineID 第二个返回值为 false 时交给 sonyflake 使用私有 IP
func defaultMachineID() (int, bool, error) {
	if s := os.Getenv(EnvMachineID); s != "" {
		id, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %s=%q: %w", ErrInvalidMachineID, EnvMachineID, s, err)
		}
		return int(id), true, nil
	}
	if host, err := osHostname(); err == nil && host != "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(host))
		return int(h.Sum32() & 0xFFFF), true, nil
	}
	return 0, false, nil
}
