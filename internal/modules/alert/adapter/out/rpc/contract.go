package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "vigil-alert"
	serviceName       = "vigil.alert.v1.AlertPlugin"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodPulse       = "/" + serviceName + "/Pulse"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "VIGIL_ALERT_PLUGIN",
	MagicCookieValue: "vigil",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type PulseRequest struct {
	Message string `json:"message"`
	Method  string `json:"method"`
	At      string `json:"at"`
}

type PulseResponse struct {
	Delivered bool   `json:"delivered"`
	Detail    string `json:"detail"`
}

type AlertPluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Pulse(ctx context.Context, in *PulseRequest) (*PulseResponse, error)
}

type AlertPluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Pulse(ctx context.Context, in *PulseRequest) (*PulseResponse, error)
}

type alertPluginClient struct {
	conn *grpc.ClientConn
}

func NewAlertPluginClient(conn *grpc.ClientConn) AlertPluginClient {
	return &alertPluginClient{conn: conn}
}

func (c *alertPluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *alertPluginClient) Pulse(ctx context.Context, in *PulseRequest) (*PulseResponse, error) {
	out := &PulseResponse{}
	if err := c.conn.Invoke(ctx, methodPulse, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterAlertPluginServer(server grpc.ServiceRegistrar, impl AlertPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*AlertPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Pulse",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &PulseRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Pulse(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodPulse}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*PulseRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Pulse(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/alert-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl AlertPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterAlertPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewAlertPluginClient(conn), nil
}

func PluginMap(impl AlertPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
