package main

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/beka-birhanu/family-labyrinth/api"
	"github.com/beka-birhanu/family-labyrinth/config"
	"github.com/beka-birhanu/family-labyrinth/i18n"
	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/mazesource"
	"github.com/beka-birhanu/family-labyrinth/pathsource"
	"github.com/beka-birhanu/family-labyrinth/service"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	"github.com/beka-birhanu/family-labyrinth/wire"
	"github.com/beka-birhanu/udp-socket-manager/crypto"
	udppb "github.com/beka-birhanu/udp-socket-manager/encoding"
	udpsocket "github.com/beka-birhanu/udp-socket-manager/socket"
	gamepb "github.com/beka-birhanu/vinom-common/gameencoder"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	socket_i "github.com/beka-birhanu/vinom-common/interfaces/socket"
	logger "github.com/beka-birhanu/vinom-common/log"
	maze "github.com/beka-birhanu/wilson-maze"
	"github.com/google/uuid"
	"google.golang.org/grpc"
)

// Global variables for dependencies
var (
	grpcConnListener   net.Listener
	grpcServer         *grpc.Server
	httpServer         *http.Server
	udpSocketManager   socket_i.ServerSocketManager
	mazeSource         i.MazeSource
	pathSource         i.PathSource
	stateEncoder       *wire.Encoder
	gameSessionManager *service.GameSessionManager
	appLogger          general_i.Logger
)

func mustLogger(l general_i.Logger, err error) general_i.Logger {
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating logger: %v", err))
		os.Exit(1)
	}
	return l
}

func initUDPSocketManager() {
	serverAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.UdpPort))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Resolving server address: %v", err))
		os.Exit(1)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Generating RSA key: %v", err))
		os.Exit(1)
	}

	serverLogger, err := logger.New("SERVER-SOCKET", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating UDP socket manager logger: %v", err))
		os.Exit(1)
	}
	server, err := udpsocket.NewServerSocketManager(
		udpsocket.ServerConfig{
			ListenAddr:  serverAddr,
			AsymmCrypto: crypto.NewRSA(privateKey),
			SymmCrypto:  crypto.NewAESCBC(),
			Encoder:     &udppb.Protobuf{},
			HMAC:        &crypto.HMAC{},
			Logger:      serverLogger,
		},
		udpsocket.ServerWithReadBufferSize(config.Envs.UDPBufferSize),
		udpsocket.ServerWithHeartbeatExpiration(time.Duration(config.Envs.UDPHeartbeatExpiration)*time.Millisecond),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating server UDP socket manager: %v", err))
		os.Exit(1)
	}

	udpSocketManager = server
	appLogger.Info("UDP Socket Manager initialized")
}

func initSources() {
	if url := config.Envs.MazeSourceURL; url != "" {
		mazeSource = mazesource.NewHTTPClient(url, nil)
		appLogger.Info(fmt.Sprintf("Using remote maze source at %s", url))
	} else {
		generator, err := mazesource.NewWilson(&mazesource.WilsonConfig{
			MazeFactory: maze.New,
			Encoder:     &gamepb.Protobuf{},
			Logger:      mustLogger(logger.New("MAZE-SOURCE", config.ColorMagenta, os.Stdout)),
		})
		if err != nil {
			appLogger.Error(fmt.Sprintf("Creating maze generator: %v", err))
			os.Exit(1)
		}
		mazeSource = generator
		appLogger.Info("Using in-process maze generator")
	}

	if url := config.Envs.PathSourceURL; url != "" {
		pathSource = pathsource.NewHTTPClient(url, nil)
		appLogger.Info(fmt.Sprintf("Using remote path source at %s", url))
	} else {
		pathSource = pathsource.Solver{}
		appLogger.Info("Using in-process path solver")
	}
}

func initStateEncoder() {
	catalog, err := i18n.New(config.Envs.Locale)
	if err != nil {
		appLogger.Warning(fmt.Sprintf("Loading %q notices, falling back to %s: %v", config.Envs.Locale, i18n.DefaultLanguage, err))
		if catalog, err = i18n.New(i18n.DefaultLanguage); err != nil {
			appLogger.Error(fmt.Sprintf("Loading notices: %v", err))
			os.Exit(1)
		}
	}
	stateEncoder = &wire.Encoder{Messages: catalog}
}

func initGameSessionManager() {
	gameLogger := mustLogger(logger.New("GAME", config.ColorYellow, os.Stdout))
	manager, err := service.NewGameSessionManager(
		&service.Config{
			Socket: udpSocketManager,
			GameFactory: func(uuid.UUID) (i.GameServer, error) {
				game, err := service.NewGame(&service.GameConfig{
					Mazes:              mazeSource,
					Paths:              pathSource,
					Machine:            labyrinth.NewMachine(nil),
					Logger:             gameLogger,
					TickInterval:       time.Duration(config.Envs.TickIntervalMs) * time.Millisecond,
					ReplayStepInterval: time.Duration(config.Envs.ReplayStepMs) * time.Millisecond,
				})
				if err != nil {
					return nil, err
				}
				return game, nil
			},
			Encoder: stateEncoder,
			Logger:  mustLogger(logger.New("GAME-MANAGER", config.ColorCyan, os.Stdout)),
		},
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game session manager: %v", err))
		os.Exit(1)
	}
	gameSessionManager = manager
	appLogger.Info("Game Session Manager initialized")
}

func initLabyrinthController() {
	grpcServer = grpc.NewServer()
	err := api.RegisterLabyrinthServer(grpcServer, &api.ServerConfig{
		Sessions: gameSessionManager,
		Encoder:  stateEncoder,
		Logger:   mustLogger(logger.New("GRPC", config.ColorGreen, os.Stdout)),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating and Registering labyrinth controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Labyrinth controller initialized")
}

func initHTTPServer() {
	wsLogger := mustLogger(logger.New("WS", config.ColorBlue, os.Stdout))
	mux := http.NewServeMux()
	mux.Handle("GET /ws", api.NewWebsocketGateway(&api.WebsocketConfig{
		Sessions: gameSessionManager,
		Encoder:  stateEncoder,
		Logger:   wsLogger,
	}))
	api.NewMazeHandler(mazeSource, pathSource, wsLogger).Register(mux)

	httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.WSPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	appLogger.Info("Websocket gateway initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	initUDPSocketManager()
	initSources()
	initStateEncoder()
	initGameSessionManager()
	initLabyrinthController()
	initHTTPServer()

	defer func() {
		gameSessionManager.StopAll()
		_ = httpServer.Close()
		udpSocketManager.Stop()
	}()

	go udpSocketManager.Serve()
	appLogger.Info("UDP Socket Manager started serving")

	go func() {
		appLogger.Info(fmt.Sprintf("Serving websockets at: %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Serving HTTP: %v", err))
		}
	}()

	var err error
	addr := fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.GrpcPort)
	grpcConnListener, err = net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp: %v", err))
		os.Exit(1)
	}
	defer func() {
		_ = grpcConnListener.Close()
	}()

	appLogger.Info(fmt.Sprintf("Serving gRPC at: %s", addr))

	if err := grpcServer.Serve(grpcConnListener); err != nil {
		appLogger.Error(fmt.Sprintf("Serving gRPC: %v", err))
		os.Exit(1)
	}
}
