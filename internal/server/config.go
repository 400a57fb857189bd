package server

import (
	"time"
)

type Config struct {
	Port                int           `yaml:"port"`
	Host                string        `yaml:"host"`
	AdminKey            string        `yaml:"adminKey"`
	AntidosBuckets      int           `yaml:"antidosBuckets"`
	AntidosPeriod       time.Duration `yaml:"antidosPeriod"`
	RenderBuckets       int           `yaml:"renderBuckets"`
	RenderPeriod        time.Duration `yaml:"renderPeriod"`
	RenderMaxConcurrent int           `yaml:"renderMaxConcurrent"`
	MaxBodyBytes        int64         `yaml:"maxBodyBytes"`
	ShutdownTimeout     time.Duration `yaml:"shutdownTimeout"`
	TLSCert             string        `yaml:"tlsCert"`
	TLSKey              string        `yaml:"tlsKey"`
	TLSReload           time.Duration `yaml:"tlsReload"`
}
