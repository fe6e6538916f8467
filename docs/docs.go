// Package docs 提供 swagger UI 使用的 API 文件
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/wheel/spin": {
            "post": {
                "produces": ["application/json"],
                "tags": ["wheel"],
                "summary": "抽獎",
                "description": "依目前時段權重抽出中獎選項並開始旋轉動畫",
                "responses": {
                    "200": {"description": "抽獎結果", "schema": {"$ref": "#/definitions/api.SpinResponse"}},
                    "409": {"description": "轉盤正在旋轉中", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "429": {"description": "請求過於頻繁", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "服務器錯誤", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "503": {"description": "轉盤桌已停止", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/wheel/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["wheel"],
                "summary": "重置轉盤",
                "responses": {
                    "200": {"description": "重置成功", "schema": {"$ref": "#/definitions/api.SuccessResponse"}}
                }
            }
        },
        "/api/v1/wheel/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wheel"],
                "summary": "獲取轉盤狀態",
                "responses": {
                    "200": {"description": "目前狀態", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/wheel/options": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wheel"],
                "summary": "獲取選項",
                "responses": {
                    "200": {"description": "選項列表", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/wheel/distribution": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wheel"],
                "summary": "模擬抽選分布",
                "parameters": [
                    {"type": "integer", "default": 10000, "description": "模擬次數", "name": "iterations", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "分布統計", "schema": {"type": "array", "items": {"type": "object"}}},
                    "400": {"description": "請求錯誤", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/wheel/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "獲取抽獎紀錄",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "筆數", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "抽獎紀錄", "schema": {"type": "object"}},
                    "400": {"description": "請求錯誤", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "服務器錯誤", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "清空抽獎紀錄",
                "responses": {
                    "200": {"description": "已清空", "schema": {"$ref": "#/definitions/api.SuccessResponse"}},
                    "500": {"description": "服務器錯誤", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/v1/wheel/history/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "獲取抽獎統計",
                "responses": {
                    "200": {"description": "今日次數與最近 7 天統計", "schema": {"type": "object"}},
                    "500": {"description": "服務器錯誤", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "api.SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "api.SpinResponse": {
            "type": "object",
            "properties": {
                "durationMs": {"type": "integer"},
                "index": {"type": "integer"},
                "option": {"type": "object"},
                "spinId": {"type": "string"},
                "targetRotation": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "wheel_lottery_service API",
	Description:      "加權轉盤抽獎服務",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
