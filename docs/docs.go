// Package docs Iris 网关 Swagger 文档（swag init -g cmd/server/main.go 生成）
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/iris/catalog": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "列出支持的指令、区域以及当前发送配置",
                "produces": ["application/json"],
                "tags": ["Iris"],
                "summary": "指令目录",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StandardResponse"}}
                }
            }
        },
        "/api/v1/iris/frames": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "按地址、指令、区域生成 12 字节帧及游程累加后的波形",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Iris"],
                "summary": "构建帧",
                "parameters": [
                    {"description": "帧参数", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.FrameRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StandardResponse"}},
                    "400": {"description": "参数错误", "schema": {"$ref": "#/definitions/api.StandardResponse"}}
                }
            }
        },
        "/api/v1/iris/commands": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "编码并交给发送通道，重复发送 repeat+1 次",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Iris"],
                "summary": "发送指令",
                "parameters": [
                    {"description": "指令", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CommandRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StandardResponse"}},
                    "400": {"description": "参数错误", "schema": {"$ref": "#/definitions/api.StandardResponse"}},
                    "429": {"description": "线路繁忙", "schema": {"$ref": "#/definitions/api.StandardResponse"}},
                    "502": {"description": "发送失败", "schema": {"$ref": "#/definitions/api.StandardResponse"}}
                }
            }
        },
        "/api/v1/iris/decode": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "pairs 格式按 mark/space 对解调；raw 格式展开原始波形并查找所有有效帧",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Iris"],
                "summary": "解码",
                "parameters": [
                    {"description": "时长列表", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.DecodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StandardResponse"}},
                    "422": {"description": "解码失败", "schema": {"$ref": "#/definitions/api.StandardResponse"}}
                }
            }
        },
        "/api/v1/iris/history": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "按时间倒序返回最近的收发记录（需要启用数据库）",
                "produces": ["application/json"],
                "tags": ["Iris"],
                "summary": "指令日志",
                "parameters": [
                    {"type": "integer", "description": "条数，默认50，最大500", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StandardResponse"}},
                    "503": {"description": "未启用数据库", "schema": {"$ref": "#/definitions/api.StandardResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.StandardResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {},
                "request_id": {"type": "string"},
                "timestamp": {"type": "integer"}
            }
        },
        "api.FrameRequest": {
            "type": "object",
            "required": ["command", "mode"],
            "properties": {
                "address": {"type": "string", "example": "0xF9CB"},
                "command": {"type": "string", "example": "POWER"},
                "mode": {"type": "string", "example": "POOL"}
            }
        },
        "api.CommandRequest": {
            "type": "object",
            "required": ["command", "mode"],
            "properties": {
                "command": {"type": "string", "example": "POWER"},
                "mode": {"type": "string", "example": "POOL"},
                "repeat": {"type": "integer", "example": 6}
            }
        },
        "api.DecodeRequest": {
            "type": "object",
            "required": ["pulses"],
            "properties": {
                "format": {"type": "string", "enum": ["pairs", "raw"]},
                "pulses": {"type": "array", "items": {"type": "integer"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Iris Gateway API",
	Description:      "Iris 泳池/水疗池遥控网关：构建帧、发送指令、解码抓包",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
