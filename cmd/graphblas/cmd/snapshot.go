package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"k3l.io/go-graphblas/pkg/snapshot"
	"k3l.io/go-graphblas/pkg/sparse"
	"k3l.io/go-graphblas/pkg/sparse/value"
	"k3l.io/go-graphblas/pkg/workspace"
)

var (
	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Keep containers in the snapshot store",
		Long: `Keep containers in the snapshot store configured by
store.dir / --store-dir (badger) or store.s3.bucket / --s3-bucket (S3).`,
	}
	snapshotSaveCmd = &cobra.Command{
		Use:   "save NAME FILE.csv",
		Short: "Save a CSV matrix or vector as a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE:  runSnapshotSave,
	}
	snapshotLoadCmd = &cobra.Command{
		Use:   "load NAME",
		Short: "Write a snapshot out as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotLoad,
	}
	snapshotListCmd = &cobra.Command{
		Use:   "list",
		Short: "List snapshot names",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotList,
	}
	snapshotDeleteCmd = &cobra.Command{
		Use:   "delete NAME...",
		Short: "Delete snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSnapshotDelete,
	}
	snapshotKind   string
	snapshotVector bool
	snapshotOutput string
)

// csvSavers read a CSV file of one value kind into the workspace.
var csvSavers = map[value.Kind]func(ctx context.Context, ws *workspace.Workspace, name, filename string, vector bool) error{
	value.Bool:    putCSV[bool],
	value.Int8:    putCSV[int8],
	value.Int16:   putCSV[int16],
	value.Int32:   putCSV[int32],
	value.Int64:   putCSV[int64],
	value.Uint8:   putCSV[uint8],
	value.Uint16:  putCSV[uint16],
	value.Uint32:  putCSV[uint32],
	value.Uint64:  putCSV[uint64],
	value.Float32: putCSV[float32],
	value.Float64: putCSV[float64],
}

// csvWriters write a workspace object of one value kind as CSV.
var csvWriters = map[value.Kind]func(ctx context.Context, filename string, obj *snapshot.Object) error{
	value.Bool:    writeObject[bool],
	value.Int8:    writeObject[int8],
	value.Int16:   writeObject[int16],
	value.Int32:   writeObject[int32],
	value.Int64:   writeObject[int64],
	value.Uint8:   writeObject[uint8],
	value.Uint16:  writeObject[uint16],
	value.Uint32:  writeObject[uint32],
	value.Uint64:  writeObject[uint64],
	value.Float32: writeObject[float32],
	value.Float64: writeObject[float64],
}

func putCSV[T value.Value](
	ctx context.Context, ws *workspace.Workspace, name, filename string, vector bool,
) error {
	if vector {
		u, err := readVector[T](ctx, filename)
		if err != nil {
			return err
		}
		_, err = workspace.PutVector(ctx, ws, name, u)
		return err
	}
	m, err := readMatrix[T](ctx, filename)
	if err != nil {
		return err
	}
	_, err = workspace.PutMatrix(ctx, ws, name, m)
	return err
}

func writeObject[T value.Value](ctx context.Context, filename string, obj *snapshot.Object) error {
	switch c := obj.Value.(type) {
	case *sparse.Matrix[T]:
		return writeMatrix(ctx, filename, c)
	case *sparse.Vector[T]:
		return writeVector(ctx, filename, c)
	}
	return errors.Errorf("unexpected container %T for %s", obj.Value, obj.Header)
}

// withStore opens the configured store and runs f on a workspace over it.
func withStore(
	ctx context.Context,
	f func(ws *workspace.Workspace, store snapshot.Store) error,
) (err error) {
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := store.Close(); err == nil {
			err = err2
		}
	}()
	ws, err := workspace.New(sctx, workspace.WithStore(store))
	if err != nil {
		return err
	}
	defer ws.Close(ctx)
	return f(ws, store)
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name, filename := args[0], args[1]
	kind, err := value.ParseKind(snapshotKind)
	if err != nil {
		return err
	}
	put, ok := csvSavers[kind]
	if !ok {
		return errors.Errorf("unsupported value type %s", kind)
	}
	return withStore(ctx, func(ws *workspace.Workspace, _ snapshot.Store) error {
		if err := put(ctx, ws, name, filename, snapshotVector); err != nil {
			return err
		}
		if err := ws.Save(ctx, name); err != nil {
			return err
		}
		info, err := ws.Info(ctx, name)
		if err != nil {
			return err
		}
		logger.Info().Str("name", name).Stringer("header", info.Header).
			Int("nnz", info.NNZ).Msg("saved snapshot")
		return nil
	})
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]
	return withStore(ctx, func(ws *workspace.Workspace, _ snapshot.Store) error {
		if _, err := ws.Load(ctx, name); err != nil {
			return err
		}
		return ws.LockAndRun(ctx, name, func(obj *snapshot.Object, _ *time.Time) error {
			write, ok := csvWriters[obj.Kind]
			if !ok {
				return errors.Errorf("unsupported value type %s", obj.Kind)
			}
			return write(ctx, snapshotOutput, obj)
		})
	})
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(_ *workspace.Workspace, store snapshot.Store) error {
		names, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		return nil
	})
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withStore(ctx, func(_ *workspace.Workspace, store snapshot.Store) error {
		for _, name := range args {
			if err := store.Delete(ctx, name); err != nil {
				return errors.Wrapf(err, "cannot delete %q", name)
			}
			logger.Debug().Str("name", name).Msg("deleted snapshot")
		}
		return nil
	})
}

func init() {
	snapshotSaveCmd.Flags().StringVarP(&snapshotKind, "type", "t", "float64",
		"value type (bool, int8, ..., uint64, float32, float64)")
	snapshotSaveCmd.Flags().BoolVar(&snapshotVector, "vector", false,
		"read the file as a vector (header i,v)")
	snapshotLoadCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "-",
		"output CSV file (- means stdout)")
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd,
		snapshotListCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}
